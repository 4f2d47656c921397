package paging

import (
	"strconv"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/gin-gonic/gin"
)

// ParseQuery reads page/size query params with the conventional defaults
// (page 0, size 10) and validates them.
func ParseQuery(c *gin.Context) (Request, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		return Request{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "page must be an integer", err)
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		return Request{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "size must be an integer", err)
	}
	return NewRequest(page, size)
}
