package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// initCORS installs the CORS middleware. CORS_ALLOW_ALL reflects any origin
// with credentials; otherwise only CORS_ALLOWED_ORIGINS are accepted and an
// empty list disables cross-origin access entirely.
func (s *Server) initCORS() error {
	var cfg cors.Config
	switch {
	case s.cfg.CORSAllowAll:
		cfg = cors.Config{
			AllowOriginFunc:  func(string) bool { return true },
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions},
			AllowCredentials: true,
			MaxAge:           10 * time.Minute,
		}
	case len(s.cfg.CORSAllowedOrigins) > 0:
		cfg = cors.Config{
			AllowOrigins: s.cfg.CORSAllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       10 * time.Minute,
		}
	default:
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cors config: %w", err)
	}
	if s.cfg.CORSAllowAll {
		s.r.Use(reflectRequestHeaders)
	}
	s.r.Use(cors.New(cfg))
	return nil
}

// reflectRequestHeaders allows whatever headers a preflight asks for. A
// literal "*" is not a wildcard once credentials are allowed.
func reflectRequestHeaders(c *gin.Context) {
	if c.Request.Method != http.MethodOptions || c.GetHeader("Origin") == "" {
		return
	}
	if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
		c.Header("Access-Control-Allow-Headers", requested)
	}
}
