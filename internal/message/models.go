package message

import (
	"time"

	"github.com/pulsechat/pulse-backend/internal/profile"
	"github.com/pulsechat/pulse-backend/internal/reaction"
)

// Message carries either trimmed text, attachment metadata, or both; a row
// with neither is rejected before it reaches storage. Attachment bytes live
// in the external blob store; only the URL and descriptive fields are kept.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChannelID      uint64    `gorm:"not null;index:idx_messages_channel_created,priority:1" json:"channel_id"`
	UserID         string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Content        *string   `gorm:"type:text" json:"content"`
	AttachmentURL  *string   `gorm:"type:text" json:"attachment_url"`
	AttachmentName *string   `gorm:"type:varchar(255)" json:"attachment_name"`
	AttachmentType *string   `gorm:"type:varchar(100)" json:"attachment_type"`
	AttachmentSize *int64    `json:"attachment_size"`
	CreatedAt      time.Time `gorm:"index:idx_messages_channel_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Derived per read, never stored.
	Reactions []reaction.Summary `gorm:"-" json:"reactions"`
	UserData  *profile.Snapshot  `gorm:"-" json:"user_data,omitempty"`
}

func (Message) TableName() string { return "messages" }

// Attachment is the optional file metadata on a post request.
type Attachment struct {
	URL  *string
	Name *string
	Type *string
	Size *int64
}
