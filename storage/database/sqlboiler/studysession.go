package boiledrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/storage/database/sqlboiler/models"
)

type studySessionRepository struct {
	db core.DB
}

var _ studysession.Repository = (*studySessionRepository)(nil) // interface compliance check

func NewStudySessionRepository(db core.DB) studysession.Repository {
	return &studySessionRepository{db: db}
}

func (repo *studySessionRepository) boil(s studysession.StudySession) *models.StudySession {
	return &models.StudySession{
		ID:            s.ID,
		UserID:        s.UserID,
		Subject:       s.Subject,
		TaskName:      s.TaskName,
		StartTime:     s.StartTime.UTC(),
		EndTime:       null.TimeFromPtr(s.EndTime),
		Duration:      s.Duration,
		IsActive:      s.IsActive,
		BreakDuration: s.BreakDuration,
		FocusDuration: s.FocusDuration,
		CreatedAt:     s.CreatedAt.UTC(),
	}
}

func (repo *studySessionRepository) unboil(s *models.StudySession) studysession.StudySession {
	if s == nil {
		return studysession.StudySession{}
	}
	ss := studysession.StudySession{
		ID:            s.ID,
		UserID:        s.UserID,
		Subject:       s.Subject,
		TaskName:      s.TaskName,
		StartTime:     s.StartTime.UTC(),
		Duration:      s.Duration,
		IsActive:      s.IsActive,
		BreakDuration: s.BreakDuration,
		FocusDuration: s.FocusDuration,
		CreatedAt:     s.CreatedAt.UTC(),
	}
	if s.EndTime.Valid {
		end := s.EndTime.Time.UTC()
		ss.EndTime = &end
	}
	return ss
}

func (repo *studySessionRepository) unboilSlice(slice models.StudySessionSlice) []studysession.StudySession {
	sessions := make([]studysession.StudySession, 0, len(slice))
	for _, s := range slice {
		sessions = append(sessions, repo.unboil(s))
	}
	return sessions
}

func (repo *studySessionRepository) StartSession(ctx context.Context, s studysession.StudySession) (studysession.StudySession, error) {
	err := core.WithTx(ctx, repo.db, func(tx core.DBTransactor) error {
		active, err := models.StudySessions(
			models.StudySessionWhere.UserID.EQ(s.UserID),
			models.StudySessionWhere.IsActive.EQ(true),
			qm.For("UPDATE"),
		).All(ctx, tx)
		if err != nil {
			return errors.Wrap(err, "locking active sessions")
		}
		for _, row := range active {
			prev := repo.unboil(row)
			prev.Stop(s.StartTime)
			if _, err = repo.boil(prev).Update(ctx, tx); err != nil {
				return errors.Wrap(err, "stopping active session")
			}
		}

		s.IsActive = true
		row := repo.boil(s)
		if err = row.Insert(ctx, tx); err != nil {
			return errors.Wrap(err, "inserting study session")
		}
		s.ID = row.ID
		return nil
	})
	if err != nil {
		return studysession.StudySession{}, err
	}
	return s, nil
}

func (repo *studySessionRepository) QuerySessions(ctx context.Context, userID int) ([]studysession.StudySession, error) {
	sessions, err := models.StudySessions(
		models.StudySessionWhere.UserID.EQ(userID),
		qm.OrderBy("\"study_session\".\"start_time\" DESC, \"study_session\".\"id\" DESC"),
	).All(ctx, repo.db)
	if err != nil {
		return nil, errors.Wrap(err, "querying study sessions")
	}
	return repo.unboilSlice(sessions), nil
}

func (repo *studySessionRepository) GetActiveSession(ctx context.Context, userID int) (studysession.StudySession, error) {
	s, err := models.StudySessions(
		models.StudySessionWhere.UserID.EQ(userID),
		models.StudySessionWhere.IsActive.EQ(true),
	).One(ctx, repo.db)
	if err != nil {
		return studysession.StudySession{}, trapNoRowsErr(err, studysession.ErrNotFound, "finding active session")
	}
	return repo.unboil(s), nil
}

func (repo *studySessionRepository) GetSessionByID(ctx context.Context, id int) (studysession.StudySession, error) {
	s, err := models.FindStudySession(ctx, repo.db, id)
	if err != nil {
		return studysession.StudySession{}, trapNoRowsErr(err, studysession.ErrNotFound, "finding study session")
	}
	return repo.unboil(s), nil
}

func (repo *studySessionRepository) UpdateSession(ctx context.Context, s studysession.StudySession) (studysession.StudySession, error) {
	n, err := repo.boil(s).Update(ctx, repo.db)
	if err != nil {
		return studysession.StudySession{}, errors.Wrap(err, "updating study session")
	}
	if n == 0 {
		return studysession.StudySession{}, studysession.ErrNotFound
	}
	return s, nil
}

func (repo *studySessionRepository) DeleteSession(ctx context.Context, id int) error {
	n, err := (&models.StudySession{ID: id}).Delete(ctx, repo.db)
	if err != nil {
		return errors.Wrap(err, "deleting study session")
	}
	if n == 0 {
		return studysession.ErrNotFound
	}
	return nil
}
