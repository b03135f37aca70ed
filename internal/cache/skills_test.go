package cache

import (
	"testing"

	"github.com/sudo-init-do/rentaskill/internal/models"
)

func TestSkillsKey(t *testing.T) {
	price := 400.0
	tests := []struct {
		f    models.SkillFilter
		want string
	}{
		{models.SkillFilter{}, "skills:||"},
		{models.SkillFilter{Query: "PyThOn"}, "skills:python||"},
		{models.SkillFilter{Query: "go", Category: "Programming", MaxPrice: &price}, "skills:go|Programming|400"},
	}
	for _, tt := range tests {
		if got := SkillsKey(tt.f); got != tt.want {
			t.Errorf("SkillsKey(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}
