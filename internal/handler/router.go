package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/compcheck/internal/middleware"
)

type RouterDeps struct {
	Query           *QueryHandler
	RateLimitWindow time.Duration
}

func RegisterRoutes(group *gin.RouterGroup, deps RouterDeps) {
	group.GET("/health", deps.Query.Health)

	limited := group.Group("")
	if deps.RateLimitWindow > 0 {
		limited.Use(middleware.RateLimit(deps.RateLimitWindow))
	}
	limited.POST("/query", deps.Query.Query)
}
