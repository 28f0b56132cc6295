package model

import "time"

type VideoModel struct {
	ID         uint      `gorm:"primaryKey;column:video_id"`
	Title      string    `gorm:"type:varchar(255);not null"`
	Publisher  *string   `gorm:"type:varchar(255)"`
	Producer   *string   `gorm:"type:varchar(255)"`
	Genre      *string   `gorm:"type:varchar(100)"`
	AgeRating  *string   `gorm:"column:age_rating;type:varchar(20)"`
	BlobURI    string    `gorm:"column:blob_uri;type:varchar(1024);not null"`
	UploadDate time.Time `gorm:"column:upload_date;not null;index;autoCreateTime"`
	CreatorID  uint      `gorm:"not null;index"`
}

func (VideoModel) TableName() string {
	return "videos"
}
