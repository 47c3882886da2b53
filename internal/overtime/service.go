package overtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/rachmanhakim/hr-management/internal/core/events"
)

type Repository interface {
	Create(req *OvertimeRequest) error
	GetByID(id int64) (*OvertimeRequest, error)
	ListByUser(userID int64, limit, offset int) ([]*OvertimeRequest, error)
	ListPending(limit, offset int) ([]*OvertimeRequest, error)
	Review(id int64, status string, reviewerID int64, note string, reviewedAt time.Time) (bool, error)
	SumApprovedHours(userID int64, from, to time.Time) (float64, error)
	UserEmail(userID int64) (string, error)
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) Submit(userID int64, dto SubmitOvertimeDTO) (*OvertimeRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req := &OvertimeRequest{
		UserID:   userID,
		WorkDate: dto.ParsedDate(),
		Hours:    dto.Hours,
		Reason:   dto.Reason,
		Status:   StatusPending,
	}
	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to submit overtime request", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("overtime request submitted", "request_id", req.ID, "user_id", userID, "hours", req.Hours)
	return req, nil
}

func (s *Service) GetByID(id int64) (*OvertimeRequest, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *Service) ListOwn(userID int64, limit, offset int) ([]*OvertimeRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(userID, limit, offset)
}

func (s *Service) ListPending(limit, offset int) ([]*OvertimeRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListPending(limit, offset)
}

func (s *Service) Approve(id, reviewerID int64, note string) (*OvertimeRequest, error) {
	return s.review(id, reviewerID, StatusApproved, note)
}

func (s *Service) Reject(id, reviewerID int64, note string) (*OvertimeRequest, error) {
	return s.review(id, reviewerID, StatusRejected, note)
}

func (s *Service) review(id, reviewerID int64, status, note string) (*OvertimeRequest, error) {
	req, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, ErrNotPending
	}

	now := time.Now()
	reviewed, err := s.repo.Review(id, status, reviewerID, note, now)
	if err != nil {
		return nil, err
	}
	if !reviewed {
		return nil, ErrNotPending
	}

	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	if note != "" {
		req.ReviewNote = &note
	}

	s.logger.Info("overtime request reviewed", "request_id", id, "status", status, "reviewer_id", reviewerID)

	s.notifyReviewed(req)
	return req, nil
}

func (s *Service) notifyReviewed(req *OvertimeRequest) {
	if s.bus == nil {
		return
	}
	email, err := s.repo.UserEmail(req.UserID)
	if err != nil || email == "" {
		s.logger.Warn("cannot notify overtime review, no email for user", "user_id", req.UserID, "error", err)
		return
	}
	note := ""
	if req.ReviewNote != nil {
		note = *req.ReviewNote
	}
	event := events.NewOvertimeReviewedEvent(email, req.ID, req.Status, note)
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish overtime reviewed event", "error", err)
	}
}
