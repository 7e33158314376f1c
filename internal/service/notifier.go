package service

import (
	"context"

	"github.com/AdamBeresnev/tryouts/internal/tournament"
)

// Notifier is told about committed state changes. Delivery is best effort:
// implementations must not block for long and cannot fail the operation.
type Notifier interface {
	PlayerRegistered(ctx context.Context, t *tournament.Tournament, player *tournament.Player)
	TournamentGenerated(ctx context.Context, t *tournament.Tournament, matches []tournament.Match)
	WinnerRecorded(ctx context.Context, t *tournament.Tournament, match *tournament.Match)
}

type NopNotifier struct{}

func (NopNotifier) PlayerRegistered(context.Context, *tournament.Tournament, *tournament.Player) {}

func (NopNotifier) TournamentGenerated(context.Context, *tournament.Tournament, []tournament.Match) {}

func (NopNotifier) WinnerRecorded(context.Context, *tournament.Tournament, *tournament.Match) {}
