package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamInt64 parses a positive path parameter.
func ParamInt64(c *gin.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ParamPage parses the optional :page parameter. A missing parameter is page 1;
// zero or negative numbers are clamped to 1; anything else non-numeric fails.
func ParamPage(c *gin.Context) (int, bool) {
	raw := c.Param("page")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if n < 1 {
		n = 1
	}
	return n, true
}
