package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Service) initRouter() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/stats", s.handleStats)
	s.router.GET("/suggest", s.handleSuggest)
	s.router.GET("/thumbnail", s.handleThumbnail)

	s.router.GET("/search", s.handleSearch)
	s.router.GET("/search/debug", s.handleSearchDebug)

	s.router.NoRoute(s.handleNoRoute)
}

func (s *Service) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "NAS Search API",
		"version": "1.0.0",
		"status":  "healthy",
	})
}

func (s *Service) handleNoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}
