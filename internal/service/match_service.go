package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/tryouts/internal/clock"
	"github.com/AdamBeresnev/tryouts/internal/store"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/AdamBeresnev/tryouts/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	clock    clock.Clock
	notifier Notifier
	shuffle  Shuffler
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, clk clock.Clock, notifier Notifier) *MatchService {
	return &MatchService{
		db:       db,
		store:    store,
		clock:    clk,
		notifier: notifier,
		shuffle:  defaultShuffler(),
	}
}

// WithShuffler swaps the randomness source, tests use it for deterministic teams
func (s *MatchService) WithShuffler(shuffle Shuffler) *MatchService {
	s.shuffle = shuffle
	return s
}

// UpdateSettings changes the round count and game type rotation. Blank game
// types are dropped and an empty list falls back to the defaults. Settings are
// frozen once matches have been generated.
func (s *MatchService) UpdateSettings(ctx context.Context, tournamentID uuid.UUID, rounds int, gameTypes []string) (*tournament.Meta, error) {
	if rounds < 1 || rounds > tournament.MaxRoundsCount {
		return nil, fmt.Errorf("%w: rounds must be between 1 and %d", ErrValidation, tournament.MaxRoundsCount)
	}

	types := tournament.StringList(utils.TrimNonEmpty(gameTypes))
	if len(types) == 0 {
		types = tournament.DefaultGameTypes()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, notFound(err)
	}

	meta, err := s.store.EnsureMetaTx(ctx, tx, tournament.NewMeta(tournamentID))
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament meta: %w", err)
	}
	if meta.Generated() {
		return nil, ErrAlreadyGenerated
	}

	meta.RoundsCount = rounds
	meta.GameTypes = types

	updated, err := s.store.UpdateMetaSettingsTx(ctx, tx, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	if !updated {
		return nil, ErrAlreadyGenerated
	}

	return meta, tx.Commit()
}

// SetWinner records or overwrites the winning side of a match. Anything other
// than A or B is rejected before the stored value is touched.
func (s *MatchService) SetWinner(ctx context.Context, t *tournament.Tournament, matchID uuid.UUID, side tournament.Side) (*tournament.Match, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSide, side)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.SetWinnerTx(ctx, tx, t.ID, matchID, side); err != nil {
		return nil, notFound(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	match, err := s.store.GetMatch(ctx, t.ID, matchID)
	if err != nil {
		return nil, notFound(err)
	}

	s.notifier.WinnerRecorded(ctx, t, match)
	return match, nil
}

// GetMatches returns the matches of a tournament ordered by round
func (s *MatchService) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]tournament.Match, error) {
	return s.store.GetMatches(ctx, tournamentID)
}
