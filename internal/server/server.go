// Package server exposes the HTTP API: the public wedding site endpoints,
// the PIN-gated check-in screens and the couple's admin panel.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/auth/pin"
	"github.com/celebreapp/celebre/internal/backupsync"
	"github.com/celebreapp/celebre/internal/cache"
	"github.com/celebreapp/celebre/internal/checkout"
	"github.com/celebreapp/celebre/internal/clock"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/contract"
	contractdomain "github.com/celebreapp/celebre/internal/contract/domain"
	"github.com/celebreapp/celebre/internal/gift"
	giftdomain "github.com/celebreapp/celebre/internal/gift/domain"
	"github.com/celebreapp/celebre/internal/guest"
	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
	"github.com/celebreapp/celebre/internal/observability"
	obsmiddleware "github.com/celebreapp/celebre/internal/observability/logger"
	obsmetrics "github.com/celebreapp/celebre/internal/observability/metrics"
	obstracing "github.com/celebreapp/celebre/internal/observability/tracing"
	"github.com/celebreapp/celebre/internal/photo"
	photodomain "github.com/celebreapp/celebre/internal/photo/domain"
	"github.com/celebreapp/celebre/internal/providers/email"
	"github.com/celebreapp/celebre/internal/providers/pdf"
	"github.com/celebreapp/celebre/internal/providers/storage"
	"github.com/celebreapp/celebre/internal/realtime"
	"github.com/celebreapp/celebre/internal/repofactory"
	"github.com/celebreapp/celebre/internal/rsvp"
	rsvpdomain "github.com/celebreapp/celebre/internal/rsvp/domain"
	"github.com/celebreapp/celebre/internal/tenant"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenant/resolver"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	cache.Module,
	realtime.Module,
	backupsync.Module,
	storage.Module,
	email.Module,
	pdf.Module,
	pin.Module,
	repofactory.Module,
	tenant.Module,
	guest.Module,
	contract.Module,
	photo.Module,
	rsvp.Module,
	checkout.Module,
	gift.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, res *resolver.Resolver) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())
	r.Use(res.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", httpMetrics.Handler())

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, res *resolver.Resolver) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, res)
}

func run(lc fx.Lifecycle, cfg *config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         *config.Config
	log         *zap.Logger
	genID       *snowflake.Node
	factory     *repofactory.Factory
	tenantSvc   tenantdomain.Service
	guestSvc    guestdomain.Service
	contractSvc contractdomain.Service
	photoSvc    photodomain.Service
	rsvpSvc     rsvpdomain.Service
	giftSvc     giftdomain.Service
	pin         *pin.Verifier
	pdf         pdf.Provider
	clock       clock.Clock
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         *config.Config
	Log         *zap.Logger
	GenID       *snowflake.Node
	Factory     *repofactory.Factory
	TenantSvc   tenantdomain.Service
	GuestSvc    guestdomain.Service
	ContractSvc contractdomain.Service
	PhotoSvc    photodomain.Service
	RsvpSvc     rsvpdomain.Service
	GiftSvc     giftdomain.Service
	Pin         *pin.Verifier
	PDF         pdf.Provider
	Clock       clock.Clock
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		genID:       p.GenID,
		factory:     p.Factory,
		tenantSvc:   p.TenantSvc,
		guestSvc:    p.GuestSvc,
		contractSvc: p.ContractSvc,
		photoSvc:    p.PhotoSvc,
		rsvpSvc:     p.RsvpSvc,
		giftSvc:     p.GiftSvc,
		pin:         p.Pin,
		pdf:         p.PDF,
		clock:       p.Clock,
	}

	svc.registerPublicRoutes()
	svc.registerCheckinRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api")

	api.GET("/tenant", s.GetTenantConfig)

	rsvp := api.Group("", RequireFeature("rsvp"))
	{
		rsvp.GET("/convidados/:code", s.LookupGuest)
		rsvp.POST("/confirmar-presenca", s.ConfirmPresence)
		rsvp.POST("/cancelar-presenca", s.CancelPresence)
		rsvp.POST("/convidados/:code/qrcode-email", s.SendQRCodeEmail)
	}

	photos := api.Group("/fotos", RequireFeature("photos"))
	{
		photos.GET("", s.PhotoFeed)
		photos.POST("", s.UploadMedia)
		photos.GET("/:id/comments", s.ListComments)
		photos.POST("/:id/comments", s.AddComment)
		photos.POST("/:id/like", s.LikePhoto)
		photos.DELETE("/:id/like", s.UnlikePhoto)
	}

	gifts := api.Group("/presentes", RequireFeature("pix"))
	{
		gifts.GET("", s.ListGifts)
		gifts.POST("/:id/reservar", s.ReserveGift)
	}

	api.POST("/payments/webhooks/:provider", s.HandleCheckoutWebhook)
}

func (s *Server) registerCheckinRoutes() {
	checkin := s.engine.Group("/api/checkin", RequireFeature("checkin"))

	checkin.POST("/login", s.CheckinLogin)
	checkin.POST("/logout", s.CheckinLogout)

	gated := checkin.Group("", s.CheckinAuthRequired())
	{
		gated.POST("", s.RegisterCheckin)
		gated.GET("/convidados", s.CheckedInGuests)
		gated.GET("/stats", s.CheckinStats)
	}
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin")

	admin.GET("/tenant", s.GetTenantConfig)
	admin.PATCH("/tenant", s.UpdateTenantConfig)

	guests := admin.Group("/convidados")
	{
		guests.GET("", s.ListGuests)
		guests.POST("", s.CreateGuest)
		guests.GET("/stats", s.GuestStats)
		guests.GET("/badges.pdf", s.ExportBadges)
		guests.GET("/lista.pdf", s.ExportGuestList)
		guests.GET("/:id", s.GetGuest)
		guests.PUT("/:id", s.UpdateGuest)
		guests.DELETE("/:id", s.DeleteGuest)
	}

	contracts := admin.Group("/contratos", RequireFeature("contracts"))
	{
		contracts.GET("", s.ListContracts)
		contracts.POST("", s.CreateContract)
		contracts.GET("/summary", s.ContractSummary)
		contracts.GET("/:id", s.GetContract)
		contracts.PUT("/:id", s.UpdateContract)
		contracts.DELETE("/:id", s.DeleteContract)
	}

	photos := admin.Group("/fotos", RequireFeature("photos"))
	{
		photos.GET("", s.AllMedia)
		photos.GET("/pendentes", s.PendingMedia)
		photos.GET("/stats", s.MediaStats)
		photos.POST("/aprovar", s.ApproveMedia)
		photos.POST("/rejeitar", s.RejectMedia)
		photos.POST("/:id/poster", s.SetPoster)
		photos.DELETE("/:id", s.DeleteMedia)
	}

	gifts := admin.Group("/presentes", RequireFeature("pix"))
	{
		gifts.POST("", s.CreateGift)
		gifts.GET("/stats", s.GiftStats)
		gifts.PUT("/:id", s.UpdateGift)
		gifts.DELETE("/:id", s.DeleteGift)
	}
}
