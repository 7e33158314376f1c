package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/AdamBeresnev/tryouts/internal/store"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/google/uuid"
)

// Shuffler permutes n elements through swap, same contract as rand.Shuffle
type Shuffler func(n int, swap func(i, j int))

// generateRounds builds one 3v3 match per round. Every round reshuffles the
// whole roster on its own, so a player can sit out one round and play the next,
// and rounds do not try to balance appearances or avoid repeat teammates.
func generateRounds(tournamentID uuid.UUID, roster []string, meta *tournament.Meta, shuffle Shuffler, now time.Time) ([]tournament.Match, error) {
	if len(roster) < tournament.MinPlayers {
		return nil, fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientPlayers, len(roster), tournament.MinPlayers)
	}

	matches := make([]tournament.Match, 0, meta.RoundsCount)
	for r := 1; r <= meta.RoundsCount; r++ {
		pool := slices.Clone(roster)
		shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})

		matches = append(matches, tournament.Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			RoundNumber:  r,
			GameType:     meta.GameTypeForRound(r),
			TeamA:        slices.Clone(pool[:tournament.TeamSize]),
			TeamB:        slices.Clone(pool[tournament.TeamSize:tournament.MinPlayers]),
			CreatedAt:    now,
		})
	}

	return matches, nil
}

// Generate turns the roster into matches. It runs at most once per tournament:
// the meta row is stamped in the same transaction that writes the matches, and
// a second call gets ErrAlreadyGenerated with the stored matches untouched.
func (s *MatchService) Generate(ctx context.Context, tournamentID uuid.UUID) ([]tournament.Match, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, notFound(err)
	}

	meta, err := s.store.EnsureMetaTx(ctx, tx, tournament.NewMeta(t.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament meta: %w", err)
	}
	if meta.Generated() {
		return nil, ErrAlreadyGenerated
	}

	players, err := s.store.GetPlayersTx(ctx, tx, t.ID, store.OrderInsertionAsc)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	roster := make([]string, 0, len(players))
	for _, p := range players {
		roster = append(roster, p.Gamertag)
	}

	now := s.clock.Now()
	matches, err := generateRounds(t.ID, roster, meta, s.shuffle, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteMatchesTx(ctx, tx, t.ID); err != nil {
		return nil, fmt.Errorf("failed to clear matches: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("failed to create matches: %w", err)
	}

	marked, err := s.store.MarkGeneratedTx(ctx, tx, t.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark tournament generated: %w", err)
	}
	if !marked {
		return nil, ErrAlreadyGenerated
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.notifier.TournamentGenerated(ctx, t, matches)
	return matches, nil
}

func defaultShuffler() Shuffler {
	return rand.Shuffle
}
