package server

import (
	"net/http"

	"github.com/celebreapp/celebre/internal/auth/pin"
	"github.com/gin-gonic/gin"
)

// CheckinLogin verifies the shared PIN and opens a session cookie for
// the reception-desk screen.
func (s *Server) CheckinLogin(c *gin.Context) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("pin", "invalid_request", "invalid request"))
		return
	}

	token, err := s.pin.Login(req.PIN)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.SetCookie(checkinCookieName, token, int(pin.SessionTTL.Seconds()), "/", "", s.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) CheckinLogout(c *gin.Context) {
	if token, err := c.Cookie(checkinCookieName); err == nil {
		s.pin.Logout(token)
	}
	c.SetCookie(checkinCookieName, "", -1, "/", "", s.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterCheckin stamps the guest's entry time. A second attempt reports
// the time of the first.
func (s *Server) RegisterCheckin(c *gin.Context) {
	var req struct {
		Code string `json:"codigo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("codigo", "invalid_request", "invalid request"))
		return
	}

	result, err := s.rsvpSvc.RegisterCheckin(c.Request.Context(), req.Code)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) CheckedInGuests(c *gin.Context) {
	guests, err := s.rsvpSvc.CheckedInGuests(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, guests)
}

func (s *Server) CheckinStats(c *gin.Context) {
	stats, err := s.rsvpSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	count, err := s.rsvpSvc.CheckinCount(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "checkins": count})
}
