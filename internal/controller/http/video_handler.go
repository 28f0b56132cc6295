package http

import (
	"net/http"

	"cloud-video/internal/usecase"
	"cloud-video/pkg/logger"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoUseCase usecase.VideoUseCase
	logger       *logger.Logger
}

func NewVideoHandler(videoUseCase usecase.VideoUseCase, logger *logger.Logger) *VideoHandler {
	return &VideoHandler{
		videoUseCase: videoUseCase,
		logger:       logger,
	}
}

type UploadVideoRequest struct {
	Title     string  `form:"title" binding:"required,max=255"`
	Publisher *string `form:"publisher" binding:"omitempty,max=255"`
	Producer  *string `form:"producer" binding:"omitempty,max=255"`
	Genre     *string `form:"genre" binding:"omitempty,max=100"`
	AgeRating *string `form:"age_rating" binding:"omitempty,max=20"`
}

type UpdateVideoRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=255"`
	Publisher *string `json:"publisher" binding:"omitempty,max=255"`
	Producer  *string `json:"producer" binding:"omitempty,max=255"`
	Genre     *string `json:"genre" binding:"omitempty,max=100"`
	AgeRating *string `json:"age_rating" binding:"omitempty,max=20"`
}

// Upload godoc
// @Summary      Upload a video
// @Description  Creator or admin only. Accepts video/mp4, video/quicktime and video/webm.
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title      formData string true  "Title"
// @Param        publisher  formData string false "Publisher"
// @Param        producer   formData string false "Producer"
// @Param        genre      formData string false "Genre"
// @Param        age_rating formData string false "Age rating"
// @Param        file       formData file   true  "Video file"
// @Success      201  {object}  entity.Video
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      413  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /videos [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	var req UploadVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		abortWithBindError(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	defer src.Close()

	video, err := h.videoUseCase.Upload(c.Request.Context(), currentActor(c), usecase.UploadVideoInput{
		Title:       req.Title,
		Publisher:   req.Publisher,
		Producer:    req.Producer,
		Genre:       req.Genre,
		AgeRating:   req.AgeRating,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     src,
	})
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, video)
}

// Get godoc
// @Summary      Get a video
// @Tags         videos
// @Produce      json
// @Param        id path int true "Video ID"
// @Success      200  {object}  entity.Video
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	video, err := h.videoUseCase.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// List godoc
// @Summary      List videos
// @Description  Newest first
// @Tags         videos
// @Produce      json
// @Param        skip  query int false "Offset"
// @Param        limit query int false "Page size (max 100)"
// @Success      200  {array}   entity.Video
// @Router       /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	videos, err := h.videoUseCase.List(c.Request.Context(), page)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

// Update godoc
// @Summary      Update video metadata
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                true "Video ID"
// @Param        request body UpdateVideoRequest true "Fields to change"
// @Success      200  {object}  entity.Video
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id} [put]
func (h *VideoHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	video, err := h.videoUseCase.Update(c.Request.Context(), currentActor(c), id, usecase.UpdateVideoInput{
		Title:     req.Title,
		Publisher: req.Publisher,
		Producer:  req.Producer,
		Genre:     req.Genre,
		AgeRating: req.AgeRating,
	})
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// Delete godoc
// @Summary      Delete a video
// @Tags         videos
// @Security     BearerAuth
// @Param        id path int true "Video ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.videoUseCase.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
