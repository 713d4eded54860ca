// Package http wires the interaction webhook endpoint.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketbridge/internal/interfaces/http/handlers"
	"ticketbridge/internal/interfaces/http/middleware"
	"ticketbridge/internal/shared/config"
	"ticketbridge/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine             *gin.Engine
	interactionHandler *handlers.InteractionHandler
}

func NewRouter(cfg *config.ServerConfig, interactionHandler *handlers.InteractionHandler, log logger.Interface) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Recovery(log))

	r := &Router{
		engine:             engine,
		interactionHandler: interactionHandler,
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.engine.POST("/interactions", r.interactionHandler.Handle)
}

func (r *Router) Handler() http.Handler {
	return r.engine
}
