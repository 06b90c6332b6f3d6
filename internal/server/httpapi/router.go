package httpapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	CORSOrigins []string
	EnablePprof bool
}

// NewRouter wires h into a gin engine.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), accessLog(h.logger))
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	if opts.EnablePprof {
		pprof.Register(router)
	}

	router.GET("/status", h.GetStatus)
	router.GET("/stats", h.GetStats)

	router.POST("/users", h.PostUser)
	router.GET("/connect", h.GetConnect)
	router.GET("/disconnect", h.GetDisconnect)
	router.GET("/users/me", h.GetMe)

	router.POST("/files", h.PostFile)
	router.GET("/files", h.ListFiles)
	router.GET("/files/:id", h.GetFile)
	router.PUT("/files/:id/publish", h.PutPublish)
	router.PUT("/files/:id/unpublish", h.PutUnpublish)
	router.GET("/files/:id/data", h.GetFileData)

	router.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "Not found"}) })

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", common.TokenHeaderName},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func accessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
