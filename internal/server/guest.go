package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
	"github.com/celebreapp/celebre/internal/providers/pdf"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context) (snowflake.ID, bool) {
	raw, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || raw == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid value"))
		return 0, false
	}
	return snowflake.ID(raw), true
}

func (s *Server) ListGuests(c *gin.Context) {
	guests, err := s.guestSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, guests)
}

func (s *Server) CreateGuest(c *gin.Context) {
	var guest guestdomain.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	if err := s.guestSvc.Create(c.Request.Context(), &guest); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guest)
}

func (s *Server) GetGuest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	guest, err := s.guestSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

func (s *Server) UpdateGuest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var guest guestdomain.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}
	guest.ID = id

	if err := s.guestSvc.Update(c.Request.Context(), &guest); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

func (s *Server) DeleteGuest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.guestSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GuestStats(c *gin.Context) {
	stats, err := s.guestSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportBadges renders one printable badge per guest.
func (s *Server) ExportBadges(c *gin.Context) {
	ctx := c.Request.Context()
	guests, err := s.guestSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.BadgeData{
		CoupleName: s.cfg.Email.CoupleName,
		EventDate:  s.cfg.EventDate,
	}
	if cfg, ok := tenantctx.FromContext(ctx); ok {
		data.CoupleName = cfg.Name
	}
	for _, guest := range guests {
		data.Guests = append(data.Guests, pdf.BadgeGuest{
			Name:       guest.Name,
			Code:       guest.Code,
			Companions: guest.Companions,
		})
	}

	doc, err := s.pdf.GenerateBadges(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	servePDF(c, "badges.pdf", doc)
}

// ExportGuestList renders the printed confirmation list.
func (s *Server) ExportGuestList(c *gin.Context) {
	ctx := c.Request.Context()
	guests, err := s.guestSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	stats, err := s.guestSvc.Stats(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.GuestListData{
		CoupleName:  s.cfg.Email.CoupleName,
		GeneratedAt: s.clock.Now().Format("02/01/2006 15:04"),
		Total:       stats.Total,
		Confirmed:   stats.Confirmed,
		Companions:  stats.Companions,
	}
	if cfg, ok := tenantctx.FromContext(ctx); ok {
		data.CoupleName = cfg.Name
	}
	for _, guest := range guests {
		row := pdf.GuestListRow{
			Name:       guest.Name,
			Code:       guest.Code,
			Companions: guest.Companions,
			Confirmed:  guest.Confirmed,
			CheckedIn:  guest.CheckedIn,
		}
		if guest.CheckinTime != nil {
			row.EntryTime = guest.CheckinTime.Format("15:04")
		}
		data.Rows = append(data.Rows, row)
	}

	doc, err := s.pdf.GenerateGuestList(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	servePDF(c, "lista-convidados.pdf", doc)
}

func servePDF(c *gin.Context, filename string, doc io.Reader) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}
