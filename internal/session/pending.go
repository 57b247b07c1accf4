package session

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

// Pending is an imported record set waiting for an explicit commit.
type Pending struct {
	ID        snowflake.ID
	Source    string
	Rows      []domain.DisplayRow
	Records   []domain.Record
	CreatedAt time.Time
}

// PendingInfo is what callers see of a staged import.
type PendingInfo struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
}

func (p *Pending) Info() PendingInfo {
	return PendingInfo{
		ID:        p.ID.String(),
		Source:    p.Source,
		Count:     len(p.Rows),
		CreatedAt: p.CreatedAt,
		Message:   fmt.Sprintf("%d Records Loaded", len(p.Rows)),
	}
}
