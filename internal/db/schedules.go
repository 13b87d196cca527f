package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/model"
)

const scheduleColumns = `id, date, slot, video_url, title, description, privacy, status,
	created_by, broadcast_id, stream_url, watch_url, created_at, updated_at`

// Queries are written with "?" bindvars and rebound per driver so the same
// SQL runs on both postgres and sqlite.

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// slotTaken runs the allocation existence check. Matching is on (date, slot)
// regardless of status unless the rebook-cancelled policy is on, in which
// case cancelled rows no longer block.
func (s *sqlStore) slotTaken(q sqlx.Queryer, date string, slot model.Slot) (bool, error) {
	query := `SELECT COUNT(1) FROM schedules WHERE date = ? AND slot = ?`
	if s.rebookCancelled {
		query += ` AND status <> 'cancelled'`
	}
	var n int
	if err := sqlx.Get(q, &n, s.db.Rebind(query), date, slot); err != nil {
		log.Error().Err(err).Str("date", date).Str("slot", string(slot)).Msg("slot existence check failed")
		return false, err
	}
	return n > 0, nil
}

func (s *sqlStore) insertSchedule(e sqlx.Execer, rec model.Schedule) error {
	const q = `
	INSERT INTO schedules
	  (id, date, slot, video_url, title, description, privacy, status,
	   created_by, broadcast_id, stream_url, watch_url, created_at, updated_at)
	VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?);`
	_, err := e.Exec(s.db.Rebind(q),
		rec.ID, rec.Date, rec.Slot, rec.VideoURL, rec.Title, rec.Description,
		rec.Privacy, rec.Status, rec.CreatedBy, rec.BroadcastID, rec.StreamURL,
		rec.WatchURL, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func newRecord(n model.NewSchedule) model.Schedule {
	now := time.Now().UTC()
	privacy := n.Privacy
	if privacy == "" {
		privacy = model.PrivacyPublic
	}
	return model.Schedule{
		ID:          uuid.NewString(),
		Date:        n.Date,
		Slot:        n.Slot,
		VideoURL:    n.VideoURL,
		Title:       n.Title,
		Description: n.Description,
		Privacy:     privacy,
		Status:      model.StatusScheduled,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateSchedule allocates a (date, slot) pair. The existence check is
// backed up by the partial unique index, so a racing insert still surfaces
// as ErrSlotTaken instead of a duplicate row.
func (s *sqlStore) CreateSchedule(n model.NewSchedule) (model.Schedule, error) {
	taken, err := s.slotTaken(s.db, n.Date, n.Slot)
	if err != nil {
		return model.Schedule{}, err
	}
	if taken {
		return model.Schedule{}, ErrSlotTaken
	}

	rec := newRecord(n)
	if err := s.insertSchedule(s.db, rec); err != nil {
		if isUniqueViolation(err) {
			return model.Schedule{}, ErrSlotTaken
		}
		log.Error().Err(err).Msg("CreateSchedule failed")
		return model.Schedule{}, err
	}
	return rec, nil
}

// CreateSchedulesBulk inserts every candidate inside one transaction with a
// per-row conflict check; the first conflict rolls the whole batch back.
// Duplicates inside the batch itself hit the same check because each row is
// inserted before the next one is examined.
func (s *sqlStore) CreateSchedulesBulk(ns []model.NewSchedule) ([]model.Schedule, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		log.Error().Err(err).Msg("CreateSchedulesBulk begin failed")
		return nil, err
	}
	defer tx.Rollback()

	out := make([]model.Schedule, 0, len(ns))
	for _, n := range ns {
		taken, err := s.slotTaken(tx, n.Date, n.Slot)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlotTaken
		}

		rec := newRecord(n)
		if err := s.insertSchedule(tx, rec); err != nil {
			if isUniqueViolation(err) {
				return nil, ErrSlotTaken
			}
			log.Error().Err(err).Msg("CreateSchedulesBulk insert failed")
			return nil, err
		}
		out = append(out, rec)
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("CreateSchedulesBulk commit failed")
		return nil, err
	}
	return out, nil
}

func (s *sqlStore) GetScheduleByID(id string) (model.Schedule, error) {
	var rec model.Schedule
	err := s.db.Get(&rec, s.db.Rebind(
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?;`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Schedule{}, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("GetScheduleByID failed")
		return model.Schedule{}, err
	}
	return rec, nil
}

// GetScheduleForSlot resolves the due item for a (date, slot) pair. Status
// is intentionally not filtered. Zero rows is the normal "nothing scheduled
// today" case; more than one row means the slot invariant was violated, and
// the lookup degrades to "none" with a warning rather than streaming an
// arbitrary pick.
func (s *sqlStore) GetScheduleForSlot(date string, slot model.Slot) (model.Schedule, error) {
	var recs []model.Schedule
	err := s.db.Select(&recs, s.db.Rebind(
		`SELECT `+scheduleColumns+` FROM schedules WHERE date = ? AND slot = ?;`), date, slot)
	if err != nil {
		log.Error().Err(err).Str("date", date).Str("slot", string(slot)).Msg("GetScheduleForSlot failed")
		return model.Schedule{}, err
	}
	switch len(recs) {
	case 0:
		return model.Schedule{}, ErrNotFound
	case 1:
		return recs[0], nil
	default:
		log.Warn().Str("date", date).Str("slot", string(slot)).
			Int("count", len(recs)).Msg("multiple schedules for one slot, refusing to pick")
		return model.Schedule{}, ErrNotFound
	}
}

// ListSchedules returns every record, date-ascending with morning before
// evening within a day. Empty bounds disable the respective filter; bounds
// are inclusive.
func (s *sqlStore) ListSchedules(fromDate, toDate string) ([]model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	var conds []string
	var args []any
	if fromDate != "" {
		conds = append(conds, `date >= ?`)
		args = append(args, fromDate)
	}
	if toDate != "" {
		conds = append(conds, `date <= ?`)
		args = append(args, toDate)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY date ASC, CASE slot WHEN 'morning' THEN 0 ELSE 1 END ASC;`

	out := []model.Schedule{}
	if err := s.db.Select(&out, s.db.Rebind(query), args...); err != nil {
		log.Error().Err(err).Msg("ListSchedules failed")
		return nil, err
	}
	return out, nil
}

// UpdateSchedule mutates only the supplied fields; date and slot are not
// reachable from here. Status legality is the handler's concern.
func (s *sqlStore) UpdateSchedule(id string, u model.ScheduleUpdate) (model.Schedule, error) {
	var sets []string
	var args []any
	if u.VideoURL != nil {
		sets = append(sets, `video_url = ?`)
		args = append(args, *u.VideoURL)
	}
	if u.Title != nil {
		sets = append(sets, `title = ?`)
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		sets = append(sets, `description = ?`)
		args = append(args, *u.Description)
	}
	if u.Privacy != nil {
		sets = append(sets, `privacy = ?`)
		args = append(args, *u.Privacy)
	}
	if u.Status != nil {
		sets = append(sets, `status = ?`)
		args = append(args, *u.Status)
	}
	if len(sets) == 0 {
		return s.GetScheduleByID(id)
	}

	sets = append(sets, `updated_at = ?`)
	args = append(args, time.Now().UTC(), id)

	query := `UPDATE schedules SET ` + strings.Join(sets, `, `) + ` WHERE id = ?;`
	res, err := s.db.Exec(s.db.Rebind(query), args...)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", id).Msg("UpdateSchedule failed")
		return model.Schedule{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Schedule{}, ErrNotFound
	}
	return s.GetScheduleByID(id)
}

func (s *sqlStore) UpdateScheduleStatus(id string, status model.Status) (model.Schedule, error) {
	st := status
	return s.UpdateSchedule(id, model.ScheduleUpdate{Status: &st})
}

// CancelSchedule soft-deletes: the row stays, status flips to cancelled.
// Cancelling an already-cancelled id succeeds again.
func (s *sqlStore) CancelSchedule(id string) (model.Schedule, error) {
	return s.UpdateScheduleStatus(id, model.StatusCancelled)
}
