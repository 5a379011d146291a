package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthControllerI interface {
	ServerRunning(ctx *gin.Context)
}

type healthController struct{}

var HealthController HealthControllerI = &healthController{}

func (h *healthController) ServerRunning(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "server is running"})
}
