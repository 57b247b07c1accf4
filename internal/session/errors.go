package session

import (
	"errors"

	"github.com/smallbiznis/iomreport/internal/ratelimit"
)

var (
	ErrNoPending        = errors.New("no_pending_import")
	ErrPendingMismatch  = errors.New("pending_import_mismatch")
	ErrCommitInProgress = ratelimit.ErrCommitInProgress
)
