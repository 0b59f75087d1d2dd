package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Service) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	solrHealthy := s.idx.Ping(ctx) == nil
	redisHealthy := s.st.Ping(ctx) == nil

	status := "healthy"
	if !solrHealthy || !redisHealthy {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"solr":   healthLabel(solrHealthy),
		"redis":  healthLabel(redisHealthy),
	})
}

func healthLabel(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "unhealthy"
}
