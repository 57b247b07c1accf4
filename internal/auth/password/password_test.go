package password

import (
	"strings"
	"testing"
)

var cheap = Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

func TestHashAndVerify(t *testing.T) {
	encoded, err := HashWith("banglalink12345", cheap)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	if !Verify("banglalink12345", encoded) {
		t.Fatalf("expected password to verify")
	}
	if Verify("banglalink1234", encoded) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := HashWith("secret", cheap)
	b, _ := HashWith("secret", cheap)
	if a == b {
		t.Fatalf("expected distinct salts")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	} {
		if Verify("secret", encoded) {
			t.Fatalf("expected %q to be rejected", encoded)
		}
	}
}
