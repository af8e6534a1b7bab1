package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/celebreapp/celebre/internal/backupsync"
	"github.com/celebreapp/celebre/internal/clock"
	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
	"github.com/celebreapp/celebre/internal/observability/metrics"
	"github.com/celebreapp/celebre/internal/providers/email"
	"github.com/celebreapp/celebre/internal/repofactory"
	"github.com/celebreapp/celebre/internal/rsvp/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Factory *repofactory.Factory
	Guests  guestdomain.Service
	Mailer  *email.Mailer
	Syncer  backupsync.Syncer
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	factory *repofactory.Factory
	guests  guestdomain.Service
	mailer  *email.Mailer
	syncer  backupsync.Syncer
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("rsvp.service"),
		factory: p.Factory,
		guests:  p.Guests,
		mailer:  p.Mailer,
		syncer:  p.Syncer,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

func (s *Service) repo(ctx context.Context) (guestdomain.Repository, error) {
	return s.factory.Guests(ctx)
}

func (s *Service) ConfirmPresence(ctx context.Context, req domain.ConfirmRequest) (domain.Result, error) {
	guest, err := s.guests.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, guestdomain.ErrGuestNotFound) || errors.Is(err, guestdomain.ErrInvalidGuest) {
			return domain.Result{Message: domain.MsgUnknownCode}, nil
		}
		return domain.Result{}, err
	}

	repo, err := s.repo(ctx)
	if err != nil {
		return domain.Result{}, err
	}

	now := s.clock.Now()
	fields := map[string]any{
		"confirmado":       true,
		"data_confirmacao": now,
	}
	if req.Companions != nil && *req.Companions >= 0 {
		fields["acompanhantes"] = *req.Companions
		guest.Companions = *req.Companions
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		fields["telefone"] = phone
		guest.Phone = phone
	}
	if addr := strings.TrimSpace(req.Email); addr != "" {
		fields["email"] = addr
		guest.Email = addr
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		fields["observacoes"] = notes
		guest.Notes = notes
	}
	if err := repo.UpdateFields(ctx, guest.ID, fields); err != nil {
		return domain.Result{}, err
	}
	guest.Confirmed = true
	guest.ConfirmedAt = &now

	s.syncer.Sync(ctx, "confirm", syncFields(guest))
	s.metrics.RecordRSVP(ctx, "confirm")
	s.log.Info("presence confirmed", zap.String("codigo", guest.Code))

	message := fmt.Sprintf("Presença confirmada com sucesso, %s!", guest.Name)
	if guest.Partner != "" {
		message = fmt.Sprintf("Presença confirmada com sucesso, %s e %s!", guest.Name, guest.Partner)
	}
	return domain.Result{Success: true, Message: message, Guest: guest}, nil
}

func (s *Service) CancelPresence(ctx context.Context, code string) (domain.Result, error) {
	guest, err := s.guests.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, guestdomain.ErrGuestNotFound) || errors.Is(err, guestdomain.ErrInvalidGuest) {
			return domain.Result{Message: domain.MsgUnknownCode}, nil
		}
		return domain.Result{}, err
	}

	repo, err := s.repo(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	err = repo.UpdateFields(ctx, guest.ID, map[string]any{
		"confirmado":       false,
		"data_confirmacao": nil,
	})
	if err != nil {
		return domain.Result{}, err
	}
	guest.Confirmed = false
	guest.ConfirmedAt = nil

	s.syncer.Sync(ctx, "cancel", syncFields(guest))
	s.metrics.RecordRSVP(ctx, "cancel")
	s.log.Info("presence cancelled", zap.String("codigo", guest.Code))

	return domain.Result{
		Success: true,
		Message: fmt.Sprintf("Presença cancelada com sucesso, %s!", guest.Name),
		Guest:   guest,
	}, nil
}

func (s *Service) RegisterCheckin(ctx context.Context, code string) (domain.Result, error) {
	guest, err := s.guests.RegisterCheckin(ctx, code)
	if err != nil {
		if errors.Is(err, guestdomain.ErrGuestNotFound) || errors.Is(err, guestdomain.ErrInvalidGuest) {
			return domain.Result{Message: domain.MsgUnknownCode}, nil
		}
		var already *guestdomain.AlreadyCheckedInError
		if errors.As(err, &already) {
			message := "Check-in já realizado"
			if already.At != nil {
				message = fmt.Sprintf("Check-in já realizado às %s", already.At.Format("15:04"))
			}
			return domain.Result{Message: message, Guest: guest}, nil
		}
		return domain.Result{}, err
	}

	s.syncer.Sync(ctx, "checkin", syncFields(guest))
	s.metrics.RecordCheckin(ctx)

	message := fmt.Sprintf("Check-in realizado para %s!", guest.Name)
	if guest.Partner != "" {
		message = fmt.Sprintf("Check-in realizado para %s e %s!", guest.Name, guest.Partner)
	}

	return domain.Result{
		Success: true,
		Message: message,
		Guest:   guest,
	}, nil
}

func (s *Service) Stats(ctx context.Context) (guestdomain.Stats, error) {
	return s.guests.Stats(ctx)
}

func (s *Service) CheckinCount(ctx context.Context) (int64, error) {
	stats, err := s.guests.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.CheckedIn, nil
}

func (s *Service) CheckedInGuests(ctx context.Context) ([]guestdomain.Guest, error) {
	return s.guests.CheckedIn(ctx)
}

// SendQRCodeEmail mails the guest their check-in code after making sure
// the code really belongs to the guest list.
func (s *Service) SendQRCodeEmail(ctx context.Context, code, emailAddr, name string) (string, error) {
	if _, err := s.guests.GetByCode(ctx, code); err != nil {
		return "", err
	}
	messageID, err := s.mailer.SendQRCode(ctx, email.QRCodeRequest{
		Code:  code,
		Email: emailAddr,
		Name:  name,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("qr code mailed", zap.String("codigo", code), zap.String("message_id", messageID))
	return messageID, nil
}

func syncFields(guest *guestdomain.Guest) map[string]string {
	fields := map[string]string{
		"codigo":        guest.Code,
		"nome":          guest.Name,
		"confirmado":    strconv.FormatBool(guest.Confirmed),
		"acompanhantes": strconv.Itoa(guest.Companions),
		"checkin":       strconv.FormatBool(guest.CheckedIn),
	}
	if guest.CheckinTime != nil {
		fields["horario_entrada"] = guest.CheckinTime.Format("15:04")
	}
	return fields
}
