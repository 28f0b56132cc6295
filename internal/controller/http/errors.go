package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud-video/internal/entity"
	"cloud-video/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError answers with the status matching err. Storage and unknown
// errors are logged and hidden behind a generic message.
func abortWithError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	detail := err.Error()

	switch status {
	case http.StatusUnauthorized:
		c.Header("WWW-Authenticate", "Bearer")
		detail = "Could not validate credentials"
		if strings.Contains(err.Error(), "invalid credentials") {
			detail = "Incorrect email or password"
		}
	case http.StatusInternalServerError:
		log.Error("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		detail = "Internal Server Error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// abortWithBindError answers a request that could not be decoded or failed
// field validation.
func abortWithBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Detail: "Request body too large"})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: bindDetail(err)})
}

func bindDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case usernameTag:
		return fmt.Sprintf("%s may only contain letters, digits, underscores and dots", field)
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
