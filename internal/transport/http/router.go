package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/infra/disk"
)

// NewRouter mounts the REST API under /api, the play socket at /ws/play
// and a liveness probe at /healthz.
func NewRouter(catalog *app.CatalogService, play *app.PlayService, uploads *disk.UploadStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), cors())

	h := NewHandler(catalog, uploads)
	ws := NewPlayHandler(play)

	api := router.Group("/api")
	{
		api.GET("/categories", h.ListCategories)

		topics := api.Group("/topics")
		{
			topics.GET("/category/:slug", h.ListTopics)
			topics.GET("/:id", h.GetTopic)
			topics.GET("/:id/results", h.ListResults)
			topics.POST("", h.CreateTopic)
			topics.PUT("/:id", h.UpdateTopic)
			topics.DELETE("/:id", h.DeleteTopic)
		}

		questions := api.Group("/questions")
		{
			questions.GET("/topic/:topicId", h.ListQuestions)
			questions.POST("", h.CreateQuestion)
			questions.POST("/quiz-result", h.RecordResult)
			questions.PUT("/:id", h.UpdateQuestion)
			questions.DELETE("/:id", h.DeleteQuestion)
		}

		api.POST("/upload", h.Upload)
	}

	router.GET("/ws/play", gin.WrapF(ws.ServeWS))
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

// cors lets the browser frontend call the API from another origin.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
