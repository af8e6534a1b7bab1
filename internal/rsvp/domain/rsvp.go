// Package domain contains the RSVP flows offered to guests.
package domain

import (
	"context"

	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
)

// ConfirmRequest is the public confirmation form. Optional fields update
// the guest row only when filled.
type ConfirmRequest struct {
	Code       string `json:"codigo"`
	Companions *int   `json:"acompanhantes,omitempty"`
	Phone      string `json:"telefone,omitempty"`
	Email      string `json:"email,omitempty"`
	Notes      string `json:"observacoes,omitempty"`
}

// Result is what the public site shows the guest. Messages are written
// for the guest, in Portuguese, and the frontend renders them verbatim.
type Result struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Guest   *guestdomain.Guest `json:"guest,omitempty"`
}

type Service interface {
	ConfirmPresence(ctx context.Context, req ConfirmRequest) (Result, error)
	CancelPresence(ctx context.Context, code string) (Result, error)
	RegisterCheckin(ctx context.Context, code string) (Result, error)
	Stats(ctx context.Context) (guestdomain.Stats, error)
	CheckinCount(ctx context.Context) (int64, error)
	CheckedInGuests(ctx context.Context) ([]guestdomain.Guest, error)
	SendQRCodeEmail(ctx context.Context, code, emailAddr, name string) (string, error)
}

// MsgUnknownCode is shown whenever a code does not match any guest.
const MsgUnknownCode = "Código não encontrado na lista de convidados. Por favor, verifique com os noivos."
