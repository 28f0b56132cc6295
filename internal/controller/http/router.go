package http

import (
	"net/http"

	"cloud-video/internal/guard"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Video   *VideoHandler
	Comment *CommentHandler
	Rating  *RatingHandler
}

type RouterOptions struct {
	Guard          *guard.Guard
	Logger         *logger.Logger
	MaxUploadBytes int64
	// AuthLimiter guards login and registration. Nil disables limiting.
	AuthLimiter gin.HandlerFunc
}

// RegisterRoutes mounts the public API on r.
func RegisterRoutes(r *gin.Engine, h Handlers, opts RouterOptions) {
	authenticated := Authenticate(opts.Guard, opts.Logger)
	limited := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if opts.AuthLimiter == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{opts.AuthLimiter, handler}
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the cloud video API"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/auth")
	{
		auth.POST("/register", limited(h.Auth.Register)...)
		auth.POST("/login", limited(h.Auth.Login)...)
		auth.GET("/me", authenticated, h.Auth.Me)
	}

	users := r.Group("/users")
	{
		users.GET("/:id", h.User.Get)
		users.POST("", authenticated, h.User.Create)
		users.POST("/admin", authenticated, h.User.CreateWithRole)
		users.POST("/me/role", authenticated, h.User.ChangeOwnRole)
		users.GET("", authenticated, h.User.List)
		users.PUT("/:id", authenticated, h.User.Update)
		users.DELETE("/:id", authenticated, h.User.Delete)
	}

	videos := r.Group("/videos")
	{
		videos.GET("", h.Video.List)
		videos.GET("/:id", h.Video.Get)
		videos.POST("", middleware.BodyLimit(opts.MaxUploadBytes), authenticated, h.Video.Upload)
		videos.PUT("/:id", authenticated, h.Video.Update)
		videos.DELETE("/:id", authenticated, h.Video.Delete)

		videos.GET("/:id/comments", h.Comment.List)
		videos.POST("/:id/comments", authenticated, h.Comment.Create)
		videos.PUT("/:id/comments/:comment_id", authenticated, h.Comment.Update)
		videos.DELETE("/:id/comments/:comment_id", authenticated, h.Comment.Delete)

		videos.GET("/:id/ratings/summary", h.Rating.Summary)
		videos.PUT("/:id/ratings", authenticated, h.Rating.Rate)
		videos.DELETE("/:id/ratings/:rating_id", authenticated, h.Rating.Delete)
	}
}
