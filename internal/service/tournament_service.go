package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/AdamBeresnev/tryouts/internal/clock"
	"github.com/AdamBeresnev/tryouts/internal/store"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/jmoiron/sqlx"
)

const maxNameLength = 100

// Codes end up in URLs, so keep them to a safe alphabet
var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{1,32}$`)

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	clock clock.Clock
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, clk clock.Clock) *TournamentService {
	return &TournamentService{db: db, store: store, clock: clk}
}

// JoinData backs the public registration page. Players are newest first.
type JoinData struct {
	Tournament *tournament.Tournament
	Players    []tournament.Player
	Open       bool
}

// AdminData backs the admin page. Players are listed in registration order,
// which is also the order the generator sees them in.
type AdminData struct {
	Tournament *tournament.Tournament
	Players    []tournament.Player
	Open       bool
	Meta       *tournament.Meta
}

func (d *AdminData) CanGenerate() bool {
	return !d.Meta.Generated() && len(d.Players) >= tournament.MinPlayers
}

type BracketData struct {
	Tournament *tournament.Tournament
	Meta       *tournament.Meta
	Matches    []tournament.Match
}

func (s *TournamentService) CreateTournament(ctx context.Context, name, code string) (*tournament.Tournament, error) {
	t := tournament.New(name, code, s.clock.Now())

	if t.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(t.Name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", ErrValidation, maxNameLength)
	}
	if !codePattern.MatchString(t.Code) {
		return nil, fmt.Errorf("%w: code must be 1-32 letters, digits, dashes or underscores", ErrValidation)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, &t); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, t.Code)
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	return &t, tx.Commit()
}

func (s *TournamentService) FindByCode(ctx context.Context, code string) (*tournament.Tournament, error) {
	t, err := s.store.GetTournamentByCode(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// RegistrationOpen is the read side of the registration window. The write
// path in RegistrationService asks the same question of the same clock.
func (s *TournamentService) RegistrationOpen(t *tournament.Tournament) bool {
	return t.RegistrationOpen(s.clock.Now())
}

func (s *TournamentService) GetJoinData(ctx context.Context, t *tournament.Tournament) (*JoinData, error) {
	players, err := s.store.GetPlayers(ctx, t.ID, store.OrderInsertionDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	return &JoinData{
		Tournament: t,
		Players:    players,
		Open:       s.RegistrationOpen(t),
	}, nil
}

func (s *TournamentService) GetAdminData(ctx context.Context, t *tournament.Tournament) (*AdminData, error) {
	players, err := s.store.GetPlayers(ctx, t.ID, store.OrderInsertionAsc)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	meta, err := s.metaOrDefaults(ctx, t)
	if err != nil {
		return nil, err
	}

	return &AdminData{
		Tournament: t,
		Players:    players,
		Open:       s.RegistrationOpen(t),
		Meta:       meta,
	}, nil
}

func (s *TournamentService) GetBracketData(ctx context.Context, t *tournament.Tournament) (*BracketData, error) {
	meta, err := s.metaOrDefaults(ctx, t)
	if err != nil {
		return nil, err
	}
	if !meta.Generated() {
		return nil, ErrNotGenerated
	}

	matches, err := s.store.GetMatches(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	return &BracketData{Tournament: t, Meta: meta, Matches: matches}, nil
}

// RoundData backs the single round page. TotalRounds comes from the stored
// settings, which generation used to create exactly that many matches.
type RoundData struct {
	Tournament  *tournament.Tournament
	Match       *tournament.Match
	TotalRounds int
}

func (s *TournamentService) GetRoundData(ctx context.Context, t *tournament.Tournament, round int) (*RoundData, error) {
	meta, err := s.metaOrDefaults(ctx, t)
	if err != nil {
		return nil, err
	}
	if !meta.Generated() {
		return nil, ErrNotGenerated
	}

	match, err := s.store.GetMatchByRound(ctx, t.ID, round)
	if err != nil {
		return nil, notFound(err)
	}

	return &RoundData{Tournament: t, Match: match, TotalRounds: meta.RoundsCount}, nil
}

// The meta row only exists once settings were saved or matches generated.
// Until then the defaults are shown without writing them.
func (s *TournamentService) metaOrDefaults(ctx context.Context, t *tournament.Tournament) (*tournament.Meta, error) {
	meta, err := s.store.GetMeta(ctx, t.ID)
	if errors.Is(err, store.ErrNotFound) {
		defaults := tournament.NewMeta(t.ID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament meta: %w", err)
	}
	return meta, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
