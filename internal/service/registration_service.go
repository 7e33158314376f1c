package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AdamBeresnev/tryouts/internal/clock"
	"github.com/AdamBeresnev/tryouts/internal/store"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/AdamBeresnev/tryouts/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const maxGamertagLength = 50

type RegistrationService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	clock    clock.Clock
	notifier Notifier
}

func NewRegistrationService(db *sqlx.DB, store *store.TournamentStore, clk clock.Clock, notifier Notifier) *RegistrationService {
	return &RegistrationService{db: db, store: store, clock: clk, notifier: notifier}
}

type PlayerInput struct {
	Gamertag string
	Days     []string
	Window   string
	Notes    string
}

// normalize validates the input and returns a player without identity or timestamp
func (in PlayerInput) normalize() (tournament.Player, error) {
	gamertag := strings.TrimSpace(in.Gamertag)
	if gamertag == "" {
		return tournament.Player{}, fmt.Errorf("%w: gamertag is required", ErrValidation)
	}
	if utf8.RuneCountInString(gamertag) > maxGamertagLength {
		return tournament.Player{}, fmt.Errorf("%w: gamertag must be at most %d characters", ErrValidation, maxGamertagLength)
	}

	days := utils.Unique(utils.TrimNonEmpty(in.Days))
	if len(days) == 0 {
		return tournament.Player{}, fmt.Errorf("%w: pick at least one day", ErrValidation)
	}
	for _, day := range days {
		if !tournament.IsWeekday(day) {
			return tournament.Player{}, fmt.Errorf("%w: unknown day %q", ErrValidation, day)
		}
	}

	window := strings.TrimSpace(in.Window)
	if window == "" {
		return tournament.Player{}, fmt.Errorf("%w: time window is required", ErrValidation)
	}
	if !tournament.IsTimeWindow(window) {
		return tournament.Player{}, fmt.Errorf("%w: unknown time window %q", ErrValidation, window)
	}

	return tournament.Player{
		Gamertag:           gamertag,
		AvailabilityDays:   days,
		AvailabilityWindow: window,
		Notes:              utils.StringOrNil(in.Notes),
	}, nil
}

// RegisterPlayer adds a player to the roster while the registration window is
// open. The deadline is checked inside the write transaction against the same
// clock the join page reads, so a request that lands after the deadline is
// rejected even if the page still showed the form. While open, duplicates are
// caught by the unique index on insert.
func (s *RegistrationService) RegisterPlayer(ctx context.Context, tournamentID uuid.UUID, input PlayerInput) (*tournament.Player, error) {
	player, err := input.normalize()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, notFound(err)
	}

	now := s.clock.Now()
	if !t.RegistrationOpen(now) {
		// A known gamertag still reads as a duplicate after the deadline
		exists, err := s.store.PlayerExistsTx(ctx, tx, t.ID, player.Gamertag)
		if err != nil {
			return nil, fmt.Errorf("failed to check roster: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, player.Gamertag)
		}
		return nil, ErrRegistrationClosed
	}

	player.ID = uuid.New()
	player.TournamentID = t.ID
	player.RegisteredAt = now

	if err := s.store.CreatePlayer(ctx, tx, &player); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, player.Gamertag)
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.notifier.PlayerRegistered(ctx, t, &player)
	return &player, nil
}

func (s *RegistrationService) ListPlayers(ctx context.Context, tournamentID uuid.UUID, order store.PlayerOrder) ([]tournament.Player, error) {
	return s.store.GetPlayers(ctx, tournamentID, order)
}
