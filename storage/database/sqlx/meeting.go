package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core/meeting"
)

const meetingColumns = `id, user_id, name, date::text AS date, time, duration, agenda, notes, participants, action_items,
	created_at, updated_at`

type meetingRow struct {
	ID           int            `db:"id"`
	UserID       int            `db:"user_id"`
	Name         string         `db:"name"`
	Date         string         `db:"date"`
	Time         string         `db:"time"`
	Duration     int            `db:"duration"`
	Agenda       string         `db:"agenda"`
	Notes        string         `db:"notes"`
	Participants pq.StringArray `db:"participants"`
	ActionItems  pq.StringArray `db:"action_items"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func stringsOrEmpty(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func (r meetingRow) unwrap() meeting.Meeting {
	return meeting.Meeting{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		Date:         r.Date,
		Time:         r.Time,
		Duration:     r.Duration,
		Agenda:       r.Agenda,
		Notes:        r.Notes,
		Participants: stringsOrEmpty(r.Participants),
		ActionItems:  stringsOrEmpty(r.ActionItems),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type meetingRepository struct {
	db *sqlx.DB
}

var _ meeting.Repository = (*meetingRepository)(nil) // interface compliance check

func NewMeetingRepository(db *sqlx.DB) meeting.Repository {
	return &meetingRepository{db: db}
}

func (repo *meetingRepository) CreateMeeting(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	m.Participants, m.ActionItems = stringsOrEmpty(m.Participants), stringsOrEmpty(m.ActionItems)
	q := `INSERT INTO meeting (user_id, name, date, time, duration, agenda, notes, participants, action_items, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q,
		m.UserID, m.Name, m.Date, m.Time, m.Duration, m.Agenda, m.Notes,
		pq.StringArray(m.Participants), pq.StringArray(m.ActionItems), m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	).Scan(&m.ID)
	if err != nil {
		return meeting.Meeting{}, errors.Wrap(err, "inserting meeting")
	}
	return m, nil
}

func (repo *meetingRepository) QueryMeetings(ctx context.Context, userID int, filter meeting.QueryFilter) ([]meeting.Meeting, error) {
	q := `SELECT ` + meetingColumns + ` FROM meeting WHERE user_id = ?`
	args := []interface{}{userID}
	if filter.Date != "" {
		q += ` AND date = ?::date`
		args = append(args, filter.Date)
	}
	q += ` ORDER BY date, time, id`

	var rows []meetingRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying meetings")
	}
	meetings := make([]meeting.Meeting, 0, len(rows))
	for _, r := range rows {
		meetings = append(meetings, r.unwrap())
	}
	return meetings, nil
}

func (repo *meetingRepository) GetMeetingByID(ctx context.Context, id int) (meeting.Meeting, error) {
	var row meetingRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+meetingColumns+` FROM meeting WHERE id = $1`, id); err != nil {
		return meeting.Meeting{}, trapNoRowsErr(err, meeting.ErrNotFound, "finding meeting")
	}
	return row.unwrap(), nil
}

func (repo *meetingRepository) UpdateMeeting(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	m.Participants, m.ActionItems = stringsOrEmpty(m.Participants), stringsOrEmpty(m.ActionItems)
	q := `UPDATE meeting SET name = $2, date = $3::date, time = $4, duration = $5, agenda = $6, notes = $7,
		participants = $8, action_items = $9, updated_at = $10 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		m.ID, m.Name, m.Date, m.Time, m.Duration, m.Agenda, m.Notes,
		pq.StringArray(m.Participants), pq.StringArray(m.ActionItems), m.UpdatedAt.UTC())
	if err != nil {
		return meeting.Meeting{}, errors.Wrap(err, "updating meeting")
	}
	if err = checkAffected(res, meeting.ErrNotFound); err != nil {
		return meeting.Meeting{}, err
	}
	return m, nil
}

func (repo *meetingRepository) DeleteMeeting(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM meeting WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting meeting")
	}
	return checkAffected(res, meeting.ErrNotFound)
}
