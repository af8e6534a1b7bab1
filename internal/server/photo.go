package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	photodomain "github.com/celebreapp/celebre/internal/photo/domain"
	"github.com/gin-gonic/gin"
)

// PhotoFeed returns approved media, newest first. Videos only appear
// once they have a poster frame.
func (s *Server) PhotoFeed(c *gin.Context) {
	if code := strings.TrimSpace(c.Query("codigo")); code != "" {
		photos, err := s.photoSvc.ByGuest(c.Request.Context(), code)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, photos)
		return
	}

	photos, err := s.photoSvc.Feed(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// UploadMedia accepts a guest photo or video from a multipart form.
func (s *Server) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, photodomain.ErrInvalidUpload)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, photodomain.ErrInvalidUpload)
		return
	}
	defer file.Close()

	up := photodomain.Upload{
		GuestCode:        strings.TrimSpace(c.PostForm("codigo_convidado")),
		GuestName:        strings.TrimSpace(c.PostForm("nome_convidado")),
		Body:             file,
		OriginalFilename: fileHeader.Filename,
		FileSize:         fileHeader.Size,
		MimeType:         fileHeader.Header.Get("Content-Type"),
		Caption:          strings.TrimSpace(c.PostForm("legenda")),
	}

	isVideo := strings.HasPrefix(up.MimeType, "video/")
	if isVideo {
		seconds, _ := strconv.ParseFloat(c.PostForm("duracao"), 64)
		up.Duration = time.Duration(seconds * float64(time.Second))

		if posterHeader, err := c.FormFile("poster"); err == nil {
			poster, err := posterHeader.Open()
			if err != nil {
				AbortWithError(c, photodomain.ErrInvalidUpload)
				return
			}
			defer poster.Close()
			up.Poster = poster
			up.PosterMimeType = posterHeader.Header.Get("Content-Type")
		}
	}

	var photo *photodomain.Photo
	if isVideo {
		photo, err = s.photoSvc.UploadVideo(c.Request.Context(), up)
	} else {
		photo, err = s.photoSvc.UploadPhoto(c.Request.Context(), up)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (s *Server) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	comments, err := s.photoSvc.Comments(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (s *Server) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		GuestCode string `json:"codigo_convidado"`
		GuestName string `json:"nome_convidado"`
		Text      string `json:"texto"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("texto", "invalid_request", "invalid request"))
		return
	}

	comment := photodomain.Comment{
		PhotoID:   id,
		GuestCode: req.GuestCode,
		GuestName: req.GuestName,
		Text:      req.Text,
	}
	if err := s.photoSvc.AddComment(c.Request.Context(), &comment); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) LikePhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	code := strings.TrimSpace(c.Query("codigo"))
	if err := s.photoSvc.Like(c.Request.Context(), id, code); err != nil {
		AbortWithError(c, err)
		return
	}
	count, err := s.photoSvc.LikeCount(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": count})
}

func (s *Server) UnlikePhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	code := strings.TrimSpace(c.Query("codigo"))
	if err := s.photoSvc.Unlike(c.Request.Context(), id, code); err != nil {
		AbortWithError(c, err)
		return
	}
	count, err := s.photoSvc.LikeCount(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": count})
}

func (s *Server) AllMedia(c *gin.Context) {
	photos, err := s.photoSvc.All(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (s *Server) PendingMedia(c *gin.Context) {
	photos, err := s.photoSvc.Pending(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (s *Server) MediaStats(c *gin.Context) {
	stats, err := s.photoSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type moderationRequest struct {
	IDs []snowflake.ID `json:"ids"`
}

func (s *Server) ApproveMedia(c *gin.Context) {
	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		AbortWithError(c, newValidationError("ids", "invalid_request", "invalid request"))
		return
	}
	if err := s.photoSvc.Approve(c.Request.Context(), req.IDs...); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectMedia removes pending uploads and their stored files.
func (s *Server) RejectMedia(c *gin.Context) {
	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		AbortWithError(c, newValidationError("ids", "invalid_request", "invalid request"))
		return
	}
	if err := s.photoSvc.Reject(c.Request.Context(), req.IDs...); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetPoster attaches a poster frame to a video, making it visible in
// the feed once approved.
func (s *Server) SetPoster(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	posterHeader, err := c.FormFile("poster")
	if err != nil {
		AbortWithError(c, photodomain.ErrInvalidUpload)
		return
	}
	poster, err := posterHeader.Open()
	if err != nil {
		AbortWithError(c, photodomain.ErrInvalidUpload)
		return
	}
	defer poster.Close()

	if err := s.photoSvc.SetPoster(c.Request.Context(), id, poster, posterHeader.Header.Get("Content-Type")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) DeleteMedia(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.photoSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
