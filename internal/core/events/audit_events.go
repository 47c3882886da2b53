package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserLoggedIn    = "user.logged_in"
	EventTypeExportGenerated = "export.generated"
)

type UserLoggedInEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserLoggedInEvent(userID int64, email string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLoggedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}

type ExportGeneratedEvent struct {
	BaseEvent
	DataType string `json:"data_type"`
	Format   string `json:"format"`
	FileName string `json:"file_name"`
}

func NewExportGeneratedEvent(dataType, format, fileName string) *ExportGeneratedEvent {
	return &ExportGeneratedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExportGenerated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"data_type": dataType,
				"format":    format,
				"file_name": fileName,
			},
		},
		DataType: dataType,
		Format:   format,
		FileName: fileName,
	}
}
