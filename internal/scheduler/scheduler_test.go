package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/store"
)

type countingCache struct{ calls int }

func (c *countingCache) Invalidate(context.Context) error {
	c.calls++
	return nil
}

type failingRefresher struct{}

func (failingRefresher) RefreshSkillStats(context.Context) (int, error) {
	return 0, errors.New("db down")
}

func TestRunOnceRefreshesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.SeedSkills(models.Skill{Name: "Python"})
	if _, err := mem.CreateUser(ctx, models.User{Email: "p@x", UserType: models.UserTypeProvider, Skills: []string{"python"}}); err != nil {
		t.Fatal(err)
	}

	cache := &countingCache{}
	New(mem, cache, "@every 1h", zerolog.Nop()).RunOnce(ctx)

	skills, err := mem.ListSkills(ctx, models.SkillFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if skills[0].ProviderCount != 1 {
		t.Errorf("provider_count = %d, want 1", skills[0].ProviderCount)
	}
	if cache.calls != 1 {
		t.Errorf("invalidations = %d", cache.calls)
	}
}

func TestRunOnceSkipsInvalidationOnFailure(t *testing.T) {
	cache := &countingCache{}
	New(failingRefresher{}, cache, "@every 1h", zerolog.Nop()).RunOnce(context.Background())
	if cache.calls != 0 {
		t.Errorf("cache invalidated after failed refresh")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(failingRefresher{}, nil, "not a schedule", zerolog.Nop())
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected invalid cron spec to fail")
	}
}
