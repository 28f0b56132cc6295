package http

import (
	"net/http"

	"cloud-video/internal/usecase"
	"cloud-video/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUseCase usecase.CommentUseCase
	logger         *logger.Logger
}

func NewCommentHandler(commentUseCase usecase.CommentUseCase, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
		logger:         logger,
	}
}

type CommentRequest struct {
	Text string `json:"comment_text" binding:"required,max=2000"`
}

// Create godoc
// @Summary      Comment on a video
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int            true "Video ID"
// @Param        request body CommentRequest true "Comment"
// @Success      201  {object}  entity.Comment
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	comment, err := h.commentUseCase.Create(c.Request.Context(), currentActor(c), videoID, req.Text)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// List godoc
// @Summary      List comments of a video
// @Description  Newest first
// @Tags         comments
// @Produce      json
// @Param        id    path  int true  "Video ID"
// @Param        skip  query int false "Offset"
// @Param        limit query int false "Page size (max 100)"
// @Success      200  {array}   entity.Comment
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	comments, err := h.commentUseCase.List(c.Request.Context(), videoID, page)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Update godoc
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path int            true "Video ID"
// @Param        comment_id path int            true "Comment ID"
// @Param        request    body CommentRequest true "Comment"
// @Success      200  {object}  entity.Comment
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id}/comments/{comment_id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	comment, err := h.commentUseCase.Update(c.Request.Context(), currentActor(c), videoID, commentID, req.Text)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete godoc
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id         path int true "Video ID"
// @Param        comment_id path int true "Comment ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /videos/{id}/comments/{comment_id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	if err := h.commentUseCase.Delete(c.Request.Context(), currentActor(c), videoID, commentID); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
