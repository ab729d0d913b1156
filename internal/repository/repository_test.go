package repository

import (
	"encoding/json"
	"testing"
)

func TestUserClaims(t *testing.T) {
	t.Parallel()

	raw, err := userClaims("7b0c6f0e-1111-4222-8333-944445555666", "authenticated")
	if err != nil {
		t.Fatalf("userClaims() error = %v", err)
	}

	var claims map[string]string
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		t.Fatalf("claims are not JSON: %v", err)
	}
	if claims["sub"] != "7b0c6f0e-1111-4222-8333-944445555666" {
		t.Errorf("sub = %q", claims["sub"])
	}
	if claims["role"] != "authenticated" {
		t.Errorf("role = %q", claims["role"])
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := options{maxConns: defaultMaxConns}
	for _, opt := range []Option{WithMaxConns(0), WithUserRole("authenticated")} {
		opt(&o)
	}
	if o.maxConns != defaultMaxConns {
		t.Errorf("maxConns = %d, want default %d", o.maxConns, defaultMaxConns)
	}
	if o.userRole != "authenticated" {
		t.Errorf("userRole = %q", o.userRole)
	}

	WithMaxConns(3)(&o)
	if o.maxConns != 3 {
		t.Errorf("maxConns = %d, want 3", o.maxConns)
	}
}
