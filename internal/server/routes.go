package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/xpanvictor/meetsec/docs"
	"github.com/xpanvictor/meetsec/internal/handlers"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

type Dependencies struct {
	Meetings *handlers.MeetingHandler
	Health   *handlers.HealthHandler
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  *Logger.Logger
}

func InitializeRoutes(r *gin.Engine, dep Dependencies) {
	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", dep.Health.Health)
	if dep.Metrics != nil {
		r.GET("/metrics", gin.WrapH(dep.Metrics))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		meetings := v1.Group("/meetings")
		meetings.POST("/process", dep.Meetings.Process)
		meetings.POST("/extract", dep.Meetings.Extract)
		meetings.POST("/publish", dep.Meetings.Publish)

		v1.POST("/protocols/render", dep.Meetings.Render)
	}
}

// NewRouter builds a gin engine with recovery and request logging through
// the service logger.
func NewRouter(dep Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(dep.Logger))
	InitializeRoutes(r, dep)
	return r
}

func requestLogger(logger *Logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics" {
			return
		}
		logger.Infof("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
