package leave

import "time"

type SubmitLeaveDTO struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (d SubmitLeaveDTO) Validate() error {
	switch d.LeaveType {
	case TypeAnnual, TypeSick, TypeUnpaid, TypeMaternity:
	default:
		return ValidationError{Msg: "leave_type must be annual, sick, unpaid or maternity"}
	}
	start, err := time.Parse("2006-01-02", d.StartDate)
	if err != nil {
		return ValidationError{Msg: "start_date must be YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", d.EndDate)
	if err != nil {
		return ValidationError{Msg: "end_date must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return ValidationError{Msg: "end_date cannot be before start_date"}
	}
	if d.Reason == "" {
		return ValidationError{Msg: "reason is required"}
	}
	return nil
}

func (d SubmitLeaveDTO) ParsedDates() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", d.StartDate)
	end, _ := time.Parse("2006-01-02", d.EndDate)
	return start, end
}

type ReviewDTO struct {
	Note string `json:"note,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }
