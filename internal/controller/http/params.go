package http

import (
	"fmt"
	"strconv"

	"cloud-video/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PageQuery is the skip/limit pair accepted by every listing.
type PageQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0"`
}

func (q PageQuery) page() usecase.Page {
	return usecase.Page{Skip: q.Skip, Limit: q.Limit}
}

func bindPage(c *gin.Context) (usecase.Page, bool) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindError(c, err)
		return usecase.Page{}, false
	}
	return q.page(), true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		abortWithBindError(c, fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return uint(id), true
}
