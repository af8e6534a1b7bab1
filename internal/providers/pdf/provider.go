// Package pdf renders printable material for the event day.
package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

type Provider interface {
	GenerateBadges(ctx context.Context, data BadgeData) (io.Reader, error)
	GenerateGuestList(ctx context.Context, data GuestListData) (io.Reader, error)
}

// BadgeData feeds the per-guest badge sheet handed to the reception desk.
type BadgeData struct {
	CoupleName string
	EventDate  string
	Guests     []BadgeGuest
}

type BadgeGuest struct {
	Name       string
	Code       string
	Companions int
}

// GuestListData feeds the printed confirmation list.
type GuestListData struct {
	CoupleName  string
	GeneratedAt string
	Rows        []GuestListRow

	Total      int64
	Confirmed  int64
	Companions int64
}

type GuestListRow struct {
	Name       string
	Code       string
	Companions int
	Confirmed  bool
	CheckedIn  bool
	EntryTime  string
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
