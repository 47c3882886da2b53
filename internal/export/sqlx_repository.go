package export

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SQLRepository reads the export datasets straight through sqlx; exports are
// snapshots, not domain operations, so they bypass the gorm repositories.
type SQLRepository struct {
	db *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Employees(filters Filters) (*Table, error) {
	query := `
		SELECT e.employee_number, e.first_name, e.last_name, e.email, e.position,
		       COALESCE(d.name, '') AS department, e.salary_idr, e.status, e.hire_date
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.deleted_at IS NULL`
	var args []interface{}
	if filters.DepartmentID != nil {
		query += " AND e.department_id = ?"
		args = append(args, *filters.DepartmentID)
	}
	if filters.Status != "" {
		query += " AND e.status = ?"
		args = append(args, filters.Status)
	}
	if filters.From != nil {
		query += " AND e.hire_date >= ?"
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		query += " AND e.hire_date <= ?"
		args = append(args, *filters.To)
	}
	query += " ORDER BY e.employee_number ASC"

	header := []string{"employee_number", "first_name", "last_name", "email", "position", "department", "salary_idr", "status", "hire_date"}
	return r.runQuery(TypeEmployees, header, query, args)
}

func (r *SQLRepository) Payroll(filters Filters) (*Table, error) {
	query := `
		SELECT p.id, p.user_id, u.email, p.period_year, p.period_month,
		       p.base_salary, p.overtime_pay, p.deductions, p.net_salary, p.status
		FROM payrolls p
		JOIN users u ON u.id = p.user_id
		WHERE 1=1`
	var args []interface{}
	if filters.UserID > 0 {
		query += " AND p.user_id = ?"
		args = append(args, filters.UserID)
	}
	if filters.Status != "" {
		query += " AND p.status = ?"
		args = append(args, filters.Status)
	}
	if filters.From != nil {
		query += " AND p.generated_at >= ?"
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		query += " AND p.generated_at <= ?"
		args = append(args, *filters.To)
	}
	query += " ORDER BY p.period_year DESC, p.period_month DESC"

	header := []string{"id", "user_id", "email", "period_year", "period_month", "base_salary", "overtime_pay", "deductions", "net_salary", "status"}
	return r.runQuery(TypePayroll, header, query, args)
}

func (r *SQLRepository) Overtime(filters Filters) (*Table, error) {
	query := `
		SELECT o.id, o.user_id, u.email, o.work_date, o.hours, o.status,
		       COALESCE(o.review_note, '') AS review_note
		FROM overtime_requests o
		JOIN users u ON u.id = o.user_id
		WHERE 1=1`
	var args []interface{}
	if filters.UserID > 0 {
		query += " AND o.user_id = ?"
		args = append(args, filters.UserID)
	}
	if filters.Status != "" {
		query += " AND o.status = ?"
		args = append(args, filters.Status)
	}
	if filters.From != nil {
		query += " AND o.work_date >= ?"
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		query += " AND o.work_date <= ?"
		args = append(args, *filters.To)
	}
	query += " ORDER BY o.work_date DESC"

	header := []string{"id", "user_id", "email", "work_date", "hours", "status", "review_note"}
	return r.runQuery(TypeOvertime, header, query, args)
}

func (r *SQLRepository) Activities(filters Filters) (*Table, error) {
	query := `
		SELECT a.id, a.user_id, a.action, a.entity, a.entity_id,
		       COALESCE(a.detail, '') AS detail, a.created_at
		FROM activity_logs a
		WHERE 1=1`
	var args []interface{}
	if filters.UserID > 0 {
		query += " AND a.user_id = ?"
		args = append(args, filters.UserID)
	}
	if filters.Action != "" {
		query += " AND a.action LIKE ?"
		args = append(args, "%"+filters.Action+"%")
	}
	if filters.From != nil {
		query += " AND a.created_at >= ?"
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		query += " AND a.created_at <= ?"
		args = append(args, *filters.To)
	}
	query += " ORDER BY a.created_at DESC"

	header := []string{"id", "user_id", "action", "entity", "entity_id", "detail", "created_at"}
	return r.runQuery(TypeActivities, header, query, args)
}

// runQuery stringifies every column so the renderers need no type knowledge.
func (r *SQLRepository) runQuery(name string, header []string, query string, args []interface{}) (*Table, error) {
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := &Table{Name: name, Header: header, Rows: [][]string{}}
	for rows.Next() {
		raw := make([]sql.NullString, len(header))
		dest := make([]interface{}, len(header))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make([]string, len(header))
		for i, v := range raw {
			if v.Valid {
				row[i] = strings.TrimSpace(v.String)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
