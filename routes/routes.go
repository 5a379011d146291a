package routes

import (
	"github.com/gin-gonic/gin"

	"vaultbackend/controllers"
)

// ClientRoutes wires the HTTP surface. All simulator state lives behind
// the session id in the path.
func ClientRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/keepServerRunning", controllers.HealthController.ServerRunning)

		api.POST("/simulator", controllers.SimulatorController.CreateSession)
		api.GET("/simulator/:id", controllers.SimulatorController.GetSession)
		api.POST("/simulator/:id/params", controllers.SimulatorController.UpdateParams)
		api.POST("/simulator/:id/message", controllers.SimulatorController.PostMessage)
		api.GET("/simulator/:id/report", controllers.SimulatorController.DownloadReport)
	}
}
