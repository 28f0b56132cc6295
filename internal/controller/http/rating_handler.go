package http

import (
	"net/http"

	"cloud-video/internal/usecase"
	"cloud-video/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingUseCase usecase.RatingUseCase
	logger        *logger.Logger
}

func NewRatingHandler(ratingUseCase usecase.RatingUseCase, logger *logger.Logger) *RatingHandler {
	return &RatingHandler{
		ratingUseCase: ratingUseCase,
		logger:        logger,
	}
}

type RatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Rate godoc
// @Summary      Rate a video
// @Description  Creates or replaces the caller's rating (1-5)
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int           true "Video ID"
// @Param        request body RatingRequest true "Rating"
// @Success      200  {object}  entity.Rating
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id}/ratings [put]
func (h *RatingHandler) Rate(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	rating, err := h.ratingUseCase.Rate(c.Request.Context(), currentActor(c), videoID, req.Rating)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Summary godoc
// @Summary      Rating summary
// @Tags         ratings
// @Produce      json
// @Param        id path int true "Video ID"
// @Success      200  {object}  entity.RatingSummary
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id}/ratings/summary [get]
func (h *RatingHandler) Summary(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.ratingUseCase.Summary(c.Request.Context(), videoID)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Delete godoc
// @Summary      Delete a rating
// @Tags         ratings
// @Security     BearerAuth
// @Param        id        path int true "Video ID"
// @Param        rating_id path int true "Rating ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id}/ratings/{rating_id} [delete]
func (h *RatingHandler) Delete(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ratingID, ok := pathID(c, "rating_id")
	if !ok {
		return
	}

	if err := h.ratingUseCase.Delete(c.Request.Context(), currentActor(c), videoID, ratingID); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
