package activity

import "log/slog"

type Repository interface {
	Create(entry *ActivityLog) error
	List(filter ListFilter) ([]*ActivityLog, error)
}

// Service records what happened; a failed write is logged and swallowed so
// auditing never breaks the operation it observes.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Record(userID int64, action, entity string, entityID int64, detail string) {
	entry := &ActivityLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to record activity", "error", err, "action", action, "entity", entity)
	}
}

func (s *Service) List(filter ListFilter) ([]*ActivityLog, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 100
	}
	return s.repo.List(filter)
}
