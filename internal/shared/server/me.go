package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfextract-backend/internal/shared/server/middleware"
	"pdfextract-backend/internal/shared/server/respond"
)

func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"id":    userID,
		"login": middleware.UserLoginFromContext(c),
		"name":  middleware.UserNameFromContext(c),
	})
}
