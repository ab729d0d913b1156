package model

import "time"

// PracticeEntry is a single prompt/response pair saved for a user.
// ID and CreatedAt are assigned by the datastore.
type PracticeEntry struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	Prompt    string     `json:"prompt"`
	Response  string     `json:"response"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// NewPracticeEntry builds an entry owned by userID.
func NewPracticeEntry(userID, prompt, response string) *PracticeEntry {
	return &PracticeEntry{
		UserID:   userID,
		Prompt:   prompt,
		Response: response,
	}
}
