package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/catalog"
)

func TestKeywordResolve(t *testing.T) {
	t.Parallel()
	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	r := NewKeyword(c)

	sol, err := r.Resolve(context.Background(), "my vpn will not connect from home")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.Contains(strings.ToLower(sol.Issue), "vpn") {
		t.Errorf("resolved issue %q does not mention vpn", sol.Issue)
	}
	if sol.Text == "" {
		t.Error("resolved solution text is empty")
	}
	if sol.Category == "" {
		t.Error("resolved category path is empty")
	}
}

func TestKeywordResolveNoMatch(t *testing.T) {
	t.Parallel()
	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	r := NewKeyword(c)

	_, err = r.Resolve(context.Background(), "zzzqqq xyzzy")
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}
