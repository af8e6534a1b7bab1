package server

import (
	"io"
	"net/http"
	"strings"

	giftdomain "github.com/celebreapp/celebre/internal/gift/domain"
	"github.com/gin-gonic/gin"
)

// ListGifts returns the registry for the public site, optionally
// filtered by category.
func (s *Server) ListGifts(c *gin.Context) {
	if category := strings.TrimSpace(c.Query("categoria")); category != "" {
		gifts, err := s.giftSvc.ByCategory(c.Request.Context(), category)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gifts)
		return
	}

	gifts, err := s.giftSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gifts)
}

// ReserveGift holds a gift for the guest and returns the checkout link.
func (s *Server) ReserveGift(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Name  string `json:"nome"`
		Email string `json:"email"`
		Phone string `json:"telefone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("nome", "invalid_request", "invalid request"))
		return
	}

	reservation, err := s.giftSvc.Reserve(c.Request.Context(), id, req.Name, req.Email, req.Phone)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// HandleCheckoutWebhook receives payment notifications. Providers
// retry on non-2xx, so unknown orders still answer 200.
func (s *Server) HandleCheckoutWebhook(c *gin.Context) {
	provider := c.Param("provider")
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, newValidationError("payload", "invalid_request", "invalid request"))
		return
	}

	if err := s.giftSvc.HandleWebhook(c.Request.Context(), provider, payload); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (s *Server) CreateGift(c *gin.Context) {
	var gift giftdomain.Gift
	if err := c.ShouldBindJSON(&gift); err != nil {
		AbortWithError(c, newValidationError("nome", "invalid_request", "invalid request"))
		return
	}
	if err := s.giftSvc.Create(c.Request.Context(), &gift); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gift)
}

func (s *Server) GiftStats(c *gin.Context) {
	stats, err := s.giftSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) UpdateGift(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	gift, err := s.giftSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := c.ShouldBindJSON(gift); err != nil {
		AbortWithError(c, newValidationError("nome", "invalid_request", "invalid request"))
		return
	}
	gift.ID = id
	if err := s.giftSvc.Update(c.Request.Context(), gift); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gift)
}

func (s *Server) DeleteGift(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.giftSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
