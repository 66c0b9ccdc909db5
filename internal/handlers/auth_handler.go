package handlers

import (
	"net/http"

	"github.com/faturaflow/faturaflow-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "faturaflow-api",
		"version": "1.0.0",
	})
}

// MeHandler returns the authenticated caller. Sign-in is handled by the
// identity provider that issues the bearer token.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// @Summary Current User
// @Description Returns the profile of the authenticated caller, including role and memberships
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /me [get]
func (h *MeHandler) Show(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": "UNAUTHENTICATED"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
