package inbox

import (
	"time"

	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"gorm.io/datatypes"
)

// Record is one delivered notification in a user's in-app feed.
type Record struct {
	ID             uint                                               `gorm:"primaryKey" json:"-"`
	NotificationID string                                             `gorm:"size:64;not null;uniqueIndex" json:"id"`
	UserID         string                                             `gorm:"size:64;not null;index:idx_inbox_user_created,priority:1" json:"user_id"`
	Text           string                                             `gorm:"type:text;not null" json:"text"`
	Template       string                                             `gorm:"type:text" json:"template"`
	Spans          datatypes.JSONSlice[notiftemplate.PlaceholderSpan] `json:"spans"`
	Read           bool                                               `gorm:"default:false" json:"read"`
	CreatedAt      time.Time                                          `gorm:"index:idx_inbox_user_created,priority:2" json:"created_at"`
}

func (Record) TableName() string {
	return "inbox_notifications"
}
