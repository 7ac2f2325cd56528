package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/JesusMarth/qa-automation-project/internal/storage"
)

type Handler interface {
	HandleHealthCheck(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleRegisterUser(c *gin.Context)
	HandleLoginUser(c *gin.Context)
	HandleListUsers(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	store  *storage.Storage
}

func New(logger zerolog.Logger, store *storage.Storage) Handler {
	return &handlerImpl{
		logger: logger,
		store:  store,
	}
}

// RegisterRoutes mounts the API under /api. The given middleware (rate
// limiting in production wiring) guards every /api route with one shared
// budget; /api-docs sits outside of it.
func RegisterRoutes(router gin.IRouter, h Handler, middleware ...gin.HandlerFunc) {
	api := router.Group("/api", middleware...)

	api.GET("/health", h.HandleHealthCheck)

	tasks := api.Group("/tasks")
	tasks.GET("", h.HandleListTasks)
	tasks.POST("", h.HandleCreateTask)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PUT("/:id", h.HandleUpdateTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)

	users := api.Group("/users")
	users.POST("", h.HandleRegisterUser)
	users.POST("/login", h.HandleLoginUser)
	users.GET("", h.HandleListUsers)

	router.GET("/api-docs", handleAPIDocs)
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *handlerImpl) HandleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
