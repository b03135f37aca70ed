package models

import (
	"strings"
	"time"
)

// User types
const (
	UserTypeSeeker   = "seeker"
	UserTypeProvider = "provider"
	UserTypeBoth     = "both"
)

// Profile types
const (
	ProfileStudent      = "student"
	ProfileGraduate     = "graduate"
	ProfileProfessional = "professional"
)

// User is a marketplace profile. Seekers post tasks, providers take them.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	UserType         string    `json:"user_type"`
	ProfileType      string    `json:"profile_type"`
	Bio              string    `json:"bio,omitempty"`
	College          string    `json:"college,omitempty"`
	Company          string    `json:"company,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Skills           []string  `json:"skills"`
	HourlyRate       float64   `json:"hourly_rate"`
	IsVerified       bool      `json:"is_verified"`
	Rating           float64   `json:"rating"`
	CompletedTasks   int       `json:"completed_tasks"`
	TotalEarnings    float64   `json:"total_earnings"`
	AvailableBalance float64   `json:"available_balance"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsProvider reports whether the user offers skills.
func (u User) IsProvider() bool {
	return u.UserType == UserTypeProvider || u.UserType == UserTypeBoth
}

// UserUpdate carries a partial profile edit. Nil fields are left untouched.
type UserUpdate struct {
	Name        *string   `json:"name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	UserType    *string   `json:"user_type,omitempty"`
	ProfileType *string   `json:"profile_type,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	College     *string   `json:"college,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	HourlyRate  *float64  `json:"hourly_rate,omitempty"`
}

// Apply copies the set fields onto u.
func (up UserUpdate) Apply(u *User) {
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.AvatarURL != nil {
		u.AvatarURL = *up.AvatarURL
	}
	if up.UserType != nil {
		u.UserType = *up.UserType
	}
	if up.ProfileType != nil {
		u.ProfileType = *up.ProfileType
	}
	if up.Bio != nil {
		u.Bio = *up.Bio
	}
	if up.College != nil {
		u.College = *up.College
	}
	if up.Company != nil {
		u.Company = *up.Company
	}
	if up.Phone != nil {
		u.Phone = *up.Phone
	}
	if up.Skills != nil {
		u.Skills = append([]string(nil), (*up.Skills)...)
	}
	if up.HourlyRate != nil {
		u.HourlyRate = *up.HourlyRate
	}
}

// ValidUserType reports whether t is one of the known user types.
func ValidUserType(t string) bool {
	switch t {
	case UserTypeSeeker, UserTypeProvider, UserTypeBoth:
		return true
	}
	return false
}

// ValidProfileType reports whether t is one of the known profile types.
func ValidProfileType(t string) bool {
	switch t {
	case ProfileStudent, ProfileGraduate, ProfileProfessional:
		return true
	}
	return false
}

// ProviderFilter narrows the provider search.
// SkillQuery matches any skill case-insensitively as a substring.
type ProviderFilter struct {
	SkillQuery string
	MaxRate    *float64
}

// Matches applies the filter to a single user.
func (f ProviderFilter) Matches(u User) bool {
	if !u.IsProvider() {
		return false
	}
	if f.MaxRate != nil && u.HourlyRate > *f.MaxRate {
		return false
	}
	if f.SkillQuery == "" {
		return true
	}
	q := strings.ToLower(f.SkillQuery)
	for _, s := range u.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
