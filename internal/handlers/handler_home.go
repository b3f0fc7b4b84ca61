package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome reports that the API is up.
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Voucher Ledger API v1"})
}

// registerHomeRoutes registers the root status route
func registerHomeRoutes(group *gin.RouterGroup) {
	group.GET("/", getHome)
}
