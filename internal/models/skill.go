package models

import "strings"

// Skill is reference data shown in the skill browser.
type Skill struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	AveragePrice  float64 `json:"average_price"`
	ProviderCount int     `json:"provider_count"`
	Rating        float64 `json:"rating"`
	IsPopular     bool    `json:"is_popular"`
}

// SkillFilter narrows the skill search.
type SkillFilter struct {
	Query    string   // case-insensitive substring of name
	Category string   // exact
	MaxPrice *float64 // average_price <= MaxPrice
}

// Matches applies the filter to a single skill.
func (f SkillFilter) Matches(s Skill) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Query)) {
		return false
	}
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.MaxPrice != nil && s.AveragePrice > *f.MaxPrice {
		return false
	}
	return true
}
