package persistent

import (
	"cloud-video/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema from the gorm models. Production
// databases are migrated with the SQL files under migrations/ instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserModel{},
		&model.VideoModel{},
		&model.CommentModel{},
		&model.RatingModel{},
	)
}
