package attendance

type ClockInDTO struct {
	Notes string `json:"notes,omitempty"`
}

type ClockOutDTO struct {
	Notes string `json:"notes,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }
