package server

import (
	"net/http"
	"strings"

	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/gin-gonic/gin"
)

const checkinCookieName = "checkin_session"

// RequireFeature hides a route group when the tenant disabled the feature.
// The response is a 404 so disabled features are indistinguishable from
// routes that never existed.
func RequireFeature(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, ok := tenantctx.FromContext(c.Request.Context())
		if !ok || !featureEnabled(cfg, feature) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "feature_not_available",
			})
			return
		}
		c.Next()
	}
}

func featureEnabled(cfg *tenantdomain.Config, feature string) bool {
	switch strings.ToLower(strings.TrimSpace(feature)) {
	case "photos":
		return cfg.Features.Photos
	case "rsvp":
		return cfg.Features.Rsvp
	case "contracts":
		return cfg.Features.Contracts
	case "checkin":
		return cfg.Features.Checkin
	case "pix":
		return cfg.Features.Pix
	default:
		return false
	}
}

// CheckinAuthRequired gates the event-day screens behind the PIN session.
// When no PIN is configured the gate stays open.
func (s *Server) CheckinAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.pin.Enabled() {
			c.Next()
			return
		}
		token, err := c.Cookie(checkinCookieName)
		if err != nil || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.pin.Verify(token); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
