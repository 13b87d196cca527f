// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sushant-kumar17/yt-streamer/internal/model"
)

var (
	// ErrNotFound means no schedule matched the lookup.
	ErrNotFound = errors.New("schedule not found")
	// ErrSlotTaken means the (date, slot) pair is already occupied.
	ErrSlotTaken = errors.New("schedule already exists for this date and slot")
)

type Store interface {
	CreateSchedule(n model.NewSchedule) (model.Schedule, error)
	CreateSchedulesBulk(ns []model.NewSchedule) ([]model.Schedule, error)
	GetScheduleByID(id string) (model.Schedule, error)
	GetScheduleForSlot(date string, slot model.Slot) (model.Schedule, error)
	ListSchedules(fromDate, toDate string) ([]model.Schedule, error)
	UpdateSchedule(id string, u model.ScheduleUpdate) (model.Schedule, error)
	UpdateScheduleStatus(id string, status model.Status) (model.Schedule, error)
	CancelSchedule(id string) (model.Schedule, error)
}

type sqlStore struct {
	db *sqlx.DB

	// rebookCancelled controls whether a cancelled row frees its slot for
	// re-allocation. By default cancelled rows keep blocking.
	rebookCancelled bool
}

// compile-time check that sqlStore implements Store
// required so linter doesn't complain
var _ Store = (*sqlStore)(nil)

func NewStore(db *sqlx.DB, rebookCancelled bool) Store {
	return &sqlStore{db: db, rebookCancelled: rebookCancelled}
}
