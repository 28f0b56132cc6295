package entity

import "time"

type Video struct {
	ID         uint      `json:"video_id"`
	Title      string    `json:"title"`
	Publisher  *string   `json:"publisher"`
	Producer   *string   `json:"producer"`
	Genre      *string   `json:"genre"`
	AgeRating  *string   `json:"age_rating"`
	BlobURI    string    `json:"blob_uri"`
	UploadDate time.Time `json:"upload_date"`
	CreatorID  uint      `json:"creator_id"`
}
