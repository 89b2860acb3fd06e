package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondErrorPage renders error.html with a plain message. Driver errors are
// logged by the caller and never reach the page.
func RespondErrorPage(c *gin.Context, code int, message string) {
	c.HTML(code, "error.html", gin.H{
		"Title":   http.StatusText(code),
		"Code":    code,
		"Message": message,
	})
}

// Redirect answers with 303 so a POST is followed by a GET.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
