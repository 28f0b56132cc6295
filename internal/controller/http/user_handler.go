package http

import (
	"net/http"

	"cloud-video/internal/usecase"
	"cloud-video/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *logger.Logger
}

func NewUserHandler(userUseCase usecase.UserUseCase, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role"`
}

type AdminCreateUserRequest struct {
	RegisterRequest
	Role string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Role        *string `json:"role"`
}

type RoleChangeRequest struct {
	Role string `json:"role" binding:"required"`
}

// Create godoc
// @Summary      Create a user
// @Description  Admin only. The role defaults to consumer.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateUserRequest true "User data"
// @Success      201  {object}  entity.User
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.create(c, req.RegisterRequest, req.Role)
}

// CreateWithRole godoc
// @Summary      Create a user with an explicit role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AdminCreateUserRequest true "User data"
// @Success      201  {object}  entity.User
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users/admin [post]
func (h *UserHandler) CreateWithRole(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.create(c, req.RegisterRequest, req.Role)
}

func (h *UserHandler) create(c *gin.Context, req RegisterRequest, role string) {
	user, err := h.userUseCase.Create(c.Request.Context(), currentActor(c), usecase.CreateUserInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        role,
	})
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip  query int false "Offset"
// @Param        limit query int false "Page size (max 100)"
// @Success      200  {array}   entity.User
// @Failure      403  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), currentActor(c), page)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Update godoc
// @Summary      Update a user
// @Description  Owner or admin. Only admins may change the role.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int               true "User ID"
// @Param        request body UpdateUserRequest true "Fields to change"
// @Success      200  {object}  entity.User
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), currentActor(c), id, usecase.UpdateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary      Delete a user
// @Description  Admin only. Removes the user's videos, comments and ratings as well.
// @Tags         users
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeOwnRole godoc
// @Summary      Switch own role
// @Description  Lets a user choose between consumer and creator. Admin can never be self-assigned.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RoleChangeRequest true "Requested role"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users/me/role [post]
func (h *UserHandler) ChangeOwnRole(c *gin.Context) {
	var req RoleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	user, err := h.userUseCase.ChangeOwnRole(c.Request.Context(), currentActor(c), req.Role)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
