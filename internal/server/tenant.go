package server

import (
	"net/http"

	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/gin-gonic/gin"
)

// GetTenantConfig returns the resolved tenant configuration. The public
// site uses it to pick theme colors and enabled features.
func (s *Server) GetTenantConfig(c *gin.Context) {
	cfg, ok := tenantctx.FromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenantdomain.ErrTenantNotFound)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateTenantConfig applies a partial update and drops every cached
// repository so the next request sees the new backend and limits.
func (s *Server) UpdateTenantConfig(c *gin.Context) {
	cfg, ok := tenantctx.FromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenantdomain.ErrTenantNotFound)
		return
	}

	var req tenantdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	updated, err := s.tenantSvc.Update(c.Request.Context(), cfg.ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.factory.Clear()

	c.JSON(http.StatusOK, updated)
}
