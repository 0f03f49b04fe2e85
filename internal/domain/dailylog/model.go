package dailylog

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog is one mood/symptom entry. At most one row exists per
// (user, log_date); saving again on the same date overwrites the mutable
// fields.
type DailyLog struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	LogDate     time.Time `db:"log_date" json:"logDate"`
	Mood        *string   `db:"mood" json:"mood,omitempty"`
	MoodScore   *int      `db:"mood_score" json:"moodScore,omitempty"`
	Symptoms    []string  `db:"symptoms" json:"symptoms"`
	SideEffects []string  `db:"side_effects" json:"sideEffects"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// UpsertRequest is the POST /logs body. LogDate defaults to today.
type UpsertRequest struct {
	LogDate     string   `json:"logDate"`
	Mood        *string  `json:"mood"`
	MoodScore   *int     `json:"moodScore"`
	Symptoms    []string `json:"symptoms"`
	SideEffects []string `json:"sideEffects"`
	Notes       *string  `json:"notes"`
}
