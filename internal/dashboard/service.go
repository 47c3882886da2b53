package dashboard

import (
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Service runs aggregate queries straight through sqlx; the dashboard is a
// read side with no writes of its own.
type Service struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewService(db *sqlx.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) Summary() (*Summary, error) {
	summary := &Summary{}

	if err := s.db.Select(&summary.Headcount, `
		SELECT COALESCE(d.name, 'Unassigned') AS department, COUNT(*) AS count
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.deleted_at IS NULL AND e.status != 'terminated'
		GROUP BY d.name
		ORDER BY count DESC`); err != nil {
		return nil, err
	}

	if err := s.db.Get(&summary.PendingLeave,
		`SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'`); err != nil {
		return nil, err
	}
	if err := s.db.Get(&summary.PendingOvertime,
		`SELECT COUNT(*) FROM overtime_requests WHERE status = 'pending'`); err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	if err := s.db.Get(&summary.AttendanceToday, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) AS present,
			COALESCE(SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END), 0) AS late,
			COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0) AS absent
		FROM attendance WHERE work_date = $1`, today); err != nil {
		return nil, err
	}

	var active int
	if err := s.db.Get(&active, `
		SELECT COUNT(*) FROM employees
		WHERE deleted_at IS NULL AND status = 'active' AND user_id IS NOT NULL`); err != nil {
		return nil, err
	}
	if active > 0 {
		present := summary.AttendanceToday.Present + summary.AttendanceToday.Late
		summary.AttendanceToday.Rate = float64(present) / float64(active)
	}

	if err := s.db.Get(&summary.InvitationFunnel, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END), 0) AS accepted,
			COALESCE(SUM(CASE WHEN status = 'expired' THEN 1 ELSE 0 END), 0) AS expired,
			COALESCE(SUM(CASE WHEN status = 'revoked' THEN 1 ELSE 0 END), 0) AS revoked
		FROM user_invitations`); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.Get(&summary.PayrollTotalMonth, `
		SELECT COALESCE(SUM(net_salary), 0) FROM payrolls
		WHERE period_year = $1 AND period_month = $2 AND status != 'draft'`,
		now.Year(), int(now.Month())); err != nil {
		return nil, err
	}

	return summary, nil
}
