package overtime

import (
	"fmt"
	"time"
)

type SubmitOvertimeDTO struct {
	WorkDate string  `json:"work_date"`
	Hours    float64 `json:"hours"`
	Reason   string  `json:"reason"`
}

func (d SubmitOvertimeDTO) Validate() error {
	if _, err := time.Parse("2006-01-02", d.WorkDate); err != nil {
		return ValidationError{Msg: "work_date must be YYYY-MM-DD"}
	}
	if d.Hours <= 0 {
		return ValidationError{Msg: "hours must be positive"}
	}
	if d.Hours > MaxHoursPerRequest {
		return ValidationError{Msg: fmt.Sprintf("hours cannot exceed %d per request", MaxHoursPerRequest)}
	}
	if d.Reason == "" {
		return ValidationError{Msg: "reason is required"}
	}
	return nil
}

func (d SubmitOvertimeDTO) ParsedDate() time.Time {
	t, _ := time.Parse("2006-01-02", d.WorkDate)
	return t
}

type ReviewDTO struct {
	Note string `json:"note,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }
