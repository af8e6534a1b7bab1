package server

import (
	"net/http"
	"strings"

	rsvpdomain "github.com/celebreapp/celebre/internal/rsvp/domain"
	"github.com/gin-gonic/gin"
)

// LookupGuest finds a guest by invite code so the site can greet them
// before confirming.
func (s *Server) LookupGuest(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	guest, err := s.guestSvc.GetByCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// ConfirmPresence records the RSVP. The result always carries the guest
// facing message, even when the code is unknown.
func (s *Server) ConfirmPresence(c *gin.Context) {
	var req rsvpdomain.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("codigo", "invalid_request", "invalid request"))
		return
	}

	result, err := s.rsvpSvc.ConfirmPresence(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) CancelPresence(c *gin.Context) {
	var req struct {
		Code string `json:"codigo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("codigo", "invalid_request", "invalid request"))
		return
	}

	result, err := s.rsvpSvc.CancelPresence(c.Request.Context(), req.Code)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendQRCodeEmail mails the guest their check-in QR code.
func (s *Server) SendQRCodeEmail(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))

	var req struct {
		Email string `json:"email"`
		Name  string `json:"nome"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("email", "invalid_request", "invalid request"))
		return
	}

	messageID, err := s.rsvpSvc.SendQRCodeEmail(c.Request.Context(), code, req.Email, req.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}
