package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creatorpulse/pkg/metrics"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(db *pgxpool.Pool, scheduleHandler *ScheduleHandler) *Router {
	r := gin.Default()
	r.Use(requestMetrics())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/schedule/:user_id", scheduleHandler.GetSchedule)
		api.PUT("/schedule/:user_id", scheduleHandler.PutSchedule)
		api.POST("/schedule/:user_id/disable", scheduleHandler.DisableSchedule)
		api.GET("/drafts/:user_id", scheduleHandler.ListDrafts)
	}

	return &Router{Engine: r}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
