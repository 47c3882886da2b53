package dashboard

// Summary is the admin landing view. Everything here is derived, nothing is
// stored.
type Summary struct {
	Headcount         []DepartmentHeadcount `json:"headcount"`
	PendingLeave      int                   `json:"pending_leave"`
	PendingOvertime   int                   `json:"pending_overtime"`
	AttendanceToday   AttendanceToday       `json:"attendance_today"`
	InvitationFunnel  InvitationFunnel      `json:"invitation_funnel"`
	PayrollTotalMonth int64                 `json:"payroll_total_month"`
}

type DepartmentHeadcount struct {
	Department string `db:"department" json:"department"`
	Count      int    `db:"count" json:"count"`
}

type AttendanceToday struct {
	Present int     `db:"present" json:"present"`
	Late    int     `db:"late" json:"late"`
	Absent  int     `db:"absent" json:"absent"`
	Rate    float64 `json:"rate"`
}

type InvitationFunnel struct {
	Pending  int `db:"pending" json:"pending"`
	Accepted int `db:"accepted" json:"accepted"`
	Expired  int `db:"expired" json:"expired"`
	Revoked  int `db:"revoked" json:"revoked"`
}
