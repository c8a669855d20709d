package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/app/controllers"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/middleware"
	"github.com/yigit/learncircle/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	circleController *controllers.CircleController,
	resourceController *controllers.ResourceController,
	taskController *controllers.TaskController,
	discussionController *controllers.DiscussionController,
	userController *controllers.UserController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public routes ---
	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)

	circles := api.Group("/circles")
	{
		circles.GET("", circleController.ListCircles)
		circles.POST("", circleController.CreateCircle)
		circles.GET("/:id", circleController.GetCircle)

		circles.POST("/:id/join", circleController.JoinCircle)
		circles.POST("/:id/follow", circleController.FollowCircle)
		circles.POST("/:id/unfollow", circleController.UnfollowCircle)
		circles.GET("/:id/membership", circleController.GetMembership)

		circles.GET("/:id/resources", resourceController.ListCircleResources)
		circles.GET("/:id/tasks", taskController.ListCircleTasks)
		circles.GET("/:id/messages", discussionController.ListCircleMessages)
		circles.POST("/:id/messages", discussionController.PostCircleMessage)
	}

	resources := api.Group("/resources")
	{
		resources.POST("", resourceController.CreateResource)
		resources.POST("/upload", resourceController.UploadResource)
		resources.POST("/:id/view", resourceController.ViewResource)
		resources.GET("/:id/comments", discussionController.ListResourceComments)
	}

	tasks := api.Group("/tasks")
	{
		tasks.POST("", taskController.CreateTask)
		tasks.POST("/:id/complete", taskController.CompleteTask)
	}

	api.POST("/comments", discussionController.CreateComment)

	users := api.Group("/users")
	{
		users.GET("/:id/profile", userController.GetProfile)
		users.GET("/:id/points-history", userController.GetPointsHistory)
	}

	// --- Token-protected routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/me", userController.GetMe)
		authenticated.DELETE("/circles/:id", circleController.DeleteCircle)
		authenticated.GET("/circles/:id/messages/ws", wsHandler.HandleConnection)
	}

	api.GET("/health", HealthCheck)
}

// HealthCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
