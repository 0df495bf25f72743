package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cms-acad/acadbot_backend/config"
	"github.com/cms-acad/acadbot_backend/models"
)

// startKeepAlive serves the hosting provider's uptime probe. It listens
// before the gateway connects so the probe passes even while Discord is
// still handshaking.
func startKeepAlive(port string, holder *models.CatalogHolder, started time.Time) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "🤖 Bot Discord en ligne! | %s | %d matricules",
			time.Now().Format("2006-01-02 15:04:05"), holder.Get().Len())
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"matricules": holder.Get().Len(),
			"uptime":     time.Since(started).Round(time.Second).String(),
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			config.LogError(config.GetLogger(), "keepalive.go", "startKeepAlive", "listen",
				map[string]any{"port": port}, err)
		}
	}()
	config.GetLogger().WithField("port", port).Info(fmt.Sprintf("serveur keep-alive démarré sur le port %s", port))
	return srv
}
