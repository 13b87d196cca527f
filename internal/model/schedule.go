package model

import "time"

// Slot is one of the two fixed daily stream windows.
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotEvening Slot = "evening"
)

func (s Slot) Valid() bool {
	return s == SlotMorning || s == SlotEvening
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusStreaming Status = "streaming"
	StatusStreamed  Status = "streamed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusStreaming, StatusStreamed, StatusCancelled:
		return true
	}
	return false
}

// transitions holds the legal forward edges of the schedule lifecycle.
// Cancellation is only reachable before dispatch has fired.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusStreaming, StatusCancelled},
	StatusStreaming: {StatusStreamed},
	StatusStreamed:  {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether moving to next is legal. Re-applying the
// current status is always allowed so that cancel stays idempotent.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
	PrivacyPrivate  Privacy = "private"
)

func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyUnlisted, PrivacyPrivate:
		return true
	}
	return false
}

// Schedule is one calendar entry: a video bound to a (date, slot) pair.
// Date is stored as YYYY-MM-DD text so string comparison matches calendar
// order on every driver.
type Schedule struct {
	ID          string    `db:"id" json:"id"`
	Date        string    `db:"date" json:"date"`
	Slot        Slot      `db:"slot" json:"slot"`
	VideoURL    string    `db:"video_url" json:"video_url"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Privacy     Privacy   `db:"privacy" json:"privacy"`
	Status      Status    `db:"status" json:"status"`
	CreatedBy   *string   `db:"created_by" json:"created_by,omitempty"`
	BroadcastID *string   `db:"broadcast_id" json:"broadcast_id,omitempty"`
	StreamURL   *string   `db:"stream_url" json:"stream_url,omitempty"`
	WatchURL    *string   `db:"watch_url" json:"watch_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NewSchedule carries the caller-supplied fields of a schedule to create.
type NewSchedule struct {
	Date        string
	Slot        Slot
	VideoURL    string
	Title       string
	Description string
	Privacy     Privacy
	CreatedBy   *string
}

// ScheduleUpdate is a partial mutation; nil fields are left untouched.
// Date and slot are deliberately absent: a schedule cannot move slots.
type ScheduleUpdate struct {
	VideoURL    *string
	Title       *string
	Description *string
	Privacy     *Privacy
	Status      *Status
}
