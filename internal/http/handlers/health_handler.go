// README: Liveness endpoint.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const healthMessage = "Itinerary Suggestion API is running."

// Health handles GET /.
func Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"message": healthMessage})
}
