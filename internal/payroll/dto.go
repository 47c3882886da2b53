package payroll

import "time"

type GeneratePayrollDTO struct {
	UserID      int64 `json:"user_id"`
	PeriodYear  int   `json:"period_year"`
	PeriodMonth int   `json:"period_month"`
}

func (d GeneratePayrollDTO) Validate() error {
	if d.UserID <= 0 {
		return ValidationError{Msg: "user_id is required"}
	}
	if d.PeriodYear < 2000 || d.PeriodYear > time.Now().Year()+1 {
		return ValidationError{Msg: "period_year is out of range"}
	}
	if d.PeriodMonth < 1 || d.PeriodMonth > 12 {
		return ValidationError{Msg: "period_month must be 1-12"}
	}
	return nil
}

type ListFilter struct {
	PeriodYear  int
	PeriodMonth int
	UserID      int64
	Status      string
	Limit       int
	Offset      int
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }
