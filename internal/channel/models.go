package channel

import "time"

type Channel struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	IsGeneral   bool      `gorm:"not null;default:false" json:"is_general"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Channel) TableName() string { return "channels" }
