package models

import "time"

// Task is a unit of work posted by a seeker.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Budget         float64    `json:"budget"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Status         Status     `json:"status"`
	SeekerID       string     `json:"seeker_id"`
	ProviderID     *string    `json:"provider_id"`
	IsUrgent       bool       `json:"is_urgent"`
	Requirements   []string   `json:"requirements"`
	VoiceNoteURL   string     `json:"voice_note_url,omitempty"`
	AttachmentURLs []string   `json:"attachment_urls,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TaskUpdate is a partial task edit. Nil fields are left untouched.
type TaskUpdate struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Budget       *float64   `json:"budget,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       *Status    `json:"status,omitempty"`
	ProviderID   *string    `json:"provider_id,omitempty"`
	IsUrgent     *bool      `json:"is_urgent,omitempty"`
	Requirements *[]string  `json:"requirements,omitempty"`
}

// IsEmpty reports whether the update sets nothing.
func (up TaskUpdate) IsEmpty() bool {
	return up.Title == nil && up.Description == nil && up.Category == nil &&
		up.Budget == nil && up.Deadline == nil && up.Status == nil &&
		up.ProviderID == nil && up.IsUrgent == nil && up.Requirements == nil
}

// Apply copies the set fields onto t.
func (up TaskUpdate) Apply(t *Task) {
	if up.Title != nil {
		t.Title = *up.Title
	}
	if up.Description != nil {
		t.Description = *up.Description
	}
	if up.Category != nil {
		t.Category = *up.Category
	}
	if up.Budget != nil {
		t.Budget = *up.Budget
	}
	if up.Deadline != nil {
		d := *up.Deadline
		t.Deadline = &d
	}
	if up.Status != nil {
		t.Status = *up.Status
	}
	if up.ProviderID != nil {
		p := *up.ProviderID
		t.ProviderID = &p
	}
	if up.IsUrgent != nil {
		t.IsUrgent = *up.IsUrgent
	}
	if up.Requirements != nil {
		t.Requirements = append([]string(nil), (*up.Requirements)...)
	}
}

// TaskFilter narrows task listings. Empty fields are ignored.
type TaskFilter struct {
	SeekerID   string
	ProviderID string
	Status     Status
	Category   string
}

// Matches applies the filter to a single task.
func (f TaskFilter) Matches(t Task) bool {
	if f.SeekerID != "" && t.SeekerID != f.SeekerID {
		return false
	}
	if f.ProviderID != "" && (t.ProviderID == nil || *t.ProviderID != f.ProviderID) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}
