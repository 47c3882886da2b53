package attendance

import (
	"log/slog"
	"time"
)

// Clock-ins after this local time are recorded as late.
const lateThresholdHour = 9

type Repository interface {
	Create(att *Attendance) error
	GetOpenByUserAndDate(userID int64, workDate time.Time) (*Attendance, error)
	Close(id int64, clockOut time.Time, notes string) (bool, error)
	ListByUser(filter ListFilter) ([]*Attendance, error)
	ListAll(filter ListFilter) ([]*Attendance, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ClockIn opens today's record. A second clock-in on the same day while the
// first record is still open is a conflict.
func (s *Service) ClockIn(userID int64, dto ClockInDTO) (*Attendance, error) {
	now := s.now()
	workDate := truncateToDay(now)

	open, err := s.repo.GetOpenByUserAndDate(userID, workDate)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrAlreadyClockedIn
	}

	status := StatusPresent
	if now.Hour() >= lateThresholdHour && !(now.Hour() == lateThresholdHour && now.Minute() == 0) {
		status = StatusLate
	}

	att := &Attendance{
		UserID:   userID,
		WorkDate: workDate,
		ClockIn:  now,
		Status:   status,
		Notes:    dto.Notes,
	}
	if err := s.repo.Create(att); err != nil {
		s.logger.Error("failed to record clock-in", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("clock-in recorded", "user_id", userID, "attendance_id", att.ID, "status", status)
	return att, nil
}

// ClockOut closes today's open record. The close is a conditional update so a
// doubled request cannot overwrite the first clock-out time.
func (s *Service) ClockOut(userID int64, dto ClockOutDTO) (*Attendance, error) {
	now := s.now()
	workDate := truncateToDay(now)

	open, err := s.repo.GetOpenByUserAndDate(userID, workDate)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNotClockedIn
	}

	closed, err := s.repo.Close(open.ID, now, dto.Notes)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrNotClockedIn
	}

	open.ClockOut = &now
	if dto.Notes != "" {
		open.Notes = dto.Notes
	}

	s.logger.Info("clock-out recorded", "user_id", userID, "attendance_id", open.ID, "worked_hours", open.WorkedHours())
	return open, nil
}

func (s *Service) ListOwn(userID int64, from, to *time.Time, limit, offset int) ([]*Attendance, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ListFilter{
		UserID: userID,
		From:   from,
		To:     to,
		Limit:  limit,
		Offset: offset,
	})
}

// ListAll is the admin view, optionally scoped to a department.
func (s *Service) ListAll(filter ListFilter) ([]*Attendance, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 100
	}
	return s.repo.ListAll(filter)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
