package identity

import (
	"context"
	"testing"
)

func TestFromEmptyContext(t *testing.T) {
	if _, ok := From(context.Background()); ok {
		t.Fatal("expected no identity on empty context")
	}
	if _, ok := From(With(context.Background(), Identity{})); ok {
		t.Fatal("expected blank identity to be treated as anonymous")
	}
}

func TestWithRoundTrip(t *testing.T) {
	ctx := With(context.Background(), Identity{UserID: "u-1", UserType: "seeker"})
	id, ok := From(ctx)
	if !ok || id.UserID != "u-1" || id.UserType != "seeker" {
		t.Fatalf("From = %+v, %v", id, ok)
	}
}

func TestResolve(t *testing.T) {
	anon := context.Background()
	authed := With(context.Background(), Identity{UserID: "u-1"})

	cases := []struct {
		name     string
		ctx      context.Context
		supplied string
		want     string
		ok       bool
	}{
		{"anonymous keeps supplied", anon, "u-9", "u-9", true},
		{"anonymous empty", anon, "", "", true},
		{"authed fills empty", authed, "", "u-1", true},
		{"authed matching", authed, "u-1", "u-1", true},
		{"authed mismatch", authed, "u-9", "u-9", false},
	}
	for _, c := range cases {
		got, ok := Resolve(c.ctx, c.supplied)
		if got != c.want || ok != c.ok {
			t.Errorf("%s: Resolve = (%q, %v), want (%q, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}
