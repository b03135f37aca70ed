// Package cache holds the Redis read-through cache for skill listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sudo-init-do/rentaskill/internal/models"
)

const skillsPrefix = "skills:"

// Skills caches skill search results keyed by filter.
type Skills struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSkills(rdb *redis.Client, ttl time.Duration) *Skills {
	return &Skills{rdb: rdb, ttl: ttl}
}

// SkillsKey renders a stable cache key for f.
func SkillsKey(f models.SkillFilter) string {
	price := ""
	if f.MaxPrice != nil {
		price = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}
	return skillsPrefix + strings.ToLower(f.Query) + "|" + f.Category + "|" + price
}

// Get returns the cached listing. A miss is (nil, false, nil).
func (s *Skills) Get(ctx context.Context, f models.SkillFilter) ([]models.Skill, bool, error) {
	raw, err := s.rdb.Get(ctx, SkillsKey(f)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("skills cache get: %w", err)
	}
	var out []models.Skill
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("skills cache decode: %w", err)
	}
	return out, true, nil
}

func (s *Skills) Set(ctx context.Context, f models.SkillFilter, skills []models.Skill) error {
	raw, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, SkillsKey(f), raw, s.ttl).Err()
}

// Invalidate drops every cached listing.
func (s *Skills) Invalidate(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, skillsPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("skills cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}
