package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine serving the task API. An empty
// allowedOrigins list, or one containing "*", allows every origin.
func NewRouter(h Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	// Match on the escaped path so that ids containing "/" stay one segment.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(h.HandleRequestLog)
	router.Use(gin.Recovery())
	router.Use(cors.New(newCORSConfig(allowedOrigins)))
	RegisterRoutes(router, h)
	return router
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleRoot)
	router.GET("/healthz", h.HandleHealth)

	tasksRouter := router.Group("/api/tasks")
	tasksRouter.GET("/:userId", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.PATCH("/:taskId", h.HandleToggleTask)
	tasksRouter.DELETE("/:taskId", h.HandleDeleteTask)
}

func newCORSConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}
