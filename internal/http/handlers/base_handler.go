// README: Base handler utilities (JSON helpers, error body).
package handlers

import (
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Detail: msg})
}
