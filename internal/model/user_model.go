package model

import "time"

type UserModel struct {
	ID           uint      `gorm:"primaryKey;column:user_id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	DisplayName  *string   `gorm:"type:varchar(100)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'consumer'"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
