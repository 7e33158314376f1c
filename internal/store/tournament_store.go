package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with an existing one")
)

type PlayerOrder int

const (
	OrderInsertionAsc PlayerOrder = iota
	OrderInsertionDesc
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

const (
	createTournamentQuery = `INSERT INTO tournaments (id, code, name, registration_deadline, created_at)
		VALUES (:id, :code, :name, :registration_deadline, :created_at)`
	createPlayerQuery = `INSERT INTO players (id, tournament_id, gamertag, availability_days, availability_window, notes, registered_at)
		VALUES (:id, :tournament_id, :gamertag, :availability_days, :availability_window, :notes, :registered_at)`
	createMatchesQuery = `INSERT INTO matches (id, tournament_id, round_number, game_type, team_a, team_b, winner, created_at)
		VALUES (:id, :tournament_id, :round_number, :game_type, :team_a, :team_b, :winner, :created_at)`
	ensureMetaQuery = `INSERT INTO tournament_meta (tournament_id, rounds_count, game_types)
		VALUES (:tournament_id, :rounds_count, :game_types)
		ON CONFLICT (tournament_id) DO NOTHING`
	updateMetaSettingsQuery = `UPDATE tournament_meta SET rounds_count = ?, game_types = ?
		WHERE tournament_id = ? AND generated_at IS NULL`
	markGeneratedQuery = `UPDATE tournament_meta SET generated_at = ?
		WHERE tournament_id = ? AND generated_at IS NULL`
	setWinnerQuery = `UPDATE matches SET winner = ? WHERE id = ? AND tournament_id = ?`

	getTournamentQuery       = "SELECT * FROM tournaments WHERE id = ?"
	getTournamentByCodeQuery = "SELECT * FROM tournaments WHERE code = ?"
	getPlayersAscQuery       = "SELECT * FROM players WHERE tournament_id = ? ORDER BY registered_at ASC, rowid ASC"
	getPlayersDescQuery      = "SELECT * FROM players WHERE tournament_id = ? ORDER BY registered_at DESC, rowid DESC"
	playerExistsQuery        = "SELECT EXISTS (SELECT 1 FROM players WHERE tournament_id = ? AND gamertag = ?)"
	getMetaQuery             = "SELECT * FROM tournament_meta WHERE tournament_id = ?"
	getMatchesQuery          = "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round_number ASC"
	getMatchQuery            = "SELECT * FROM matches WHERE id = ? AND tournament_id = ?"
	getMatchByRoundQuery     = "SELECT * FROM matches WHERE tournament_id = ? AND round_number = ?"
)

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *tournament.Tournament) error {
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament)
	return translate(err)
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	return getTournament(ctx, s.db, getTournamentQuery, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*tournament.Tournament, error) {
	return getTournament(ctx, tx, getTournamentQuery, id)
}

func (s *TournamentStore) GetTournamentByCode(ctx context.Context, code string) (*tournament.Tournament, error) {
	return getTournament(ctx, s.db, getTournamentByCodeQuery, tournament.NormalizeCode(code))
}

func getTournament(ctx context.Context, q sqlx.QueryerContext, query string, arg any) (*tournament.Tournament, error) {
	var t tournament.Tournament
	if err := sqlx.GetContext(ctx, q, &t, query, arg); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *TournamentStore) CreatePlayer(ctx context.Context, tx *sqlx.Tx, player *tournament.Player) error {
	_, err := tx.NamedExecContext(ctx, createPlayerQuery, player)
	return translate(err)
}

// PlayerExistsTx uses the column collation, so the match ignores case
func (s *TournamentStore) PlayerExistsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, gamertag string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, playerExistsQuery, tournamentID, gamertag)
	return exists, err
}

func (s *TournamentStore) GetPlayers(ctx context.Context, tournamentID uuid.UUID, order PlayerOrder) ([]tournament.Player, error) {
	return getPlayers(ctx, s.db, tournamentID, order)
}

func (s *TournamentStore) GetPlayersTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, order PlayerOrder) ([]tournament.Player, error) {
	return getPlayers(ctx, tx, tournamentID, order)
}

func getPlayers(ctx context.Context, q sqlx.QueryerContext, tournamentID uuid.UUID, order PlayerOrder) ([]tournament.Player, error) {
	query := getPlayersAscQuery
	if order == OrderInsertionDesc {
		query = getPlayersDescQuery
	}
	players := []tournament.Player{}
	err := sqlx.SelectContext(ctx, q, &players, query, tournamentID)
	return players, err
}

// EnsureMetaTx creates the meta row with the given defaults if it does not
// exist yet and returns whatever is stored.
func (s *TournamentStore) EnsureMetaTx(ctx context.Context, tx *sqlx.Tx, defaults tournament.Meta) (*tournament.Meta, error) {
	if _, err := tx.NamedExecContext(ctx, ensureMetaQuery, defaults); err != nil {
		return nil, translate(err)
	}
	return getMeta(ctx, tx, defaults.TournamentID)
}

func (s *TournamentStore) GetMeta(ctx context.Context, tournamentID uuid.UUID) (*tournament.Meta, error) {
	return getMeta(ctx, s.db, tournamentID)
}

func getMeta(ctx context.Context, q sqlx.QueryerContext, tournamentID uuid.UUID) (*tournament.Meta, error) {
	var meta tournament.Meta
	if err := sqlx.GetContext(ctx, q, &meta, getMetaQuery, tournamentID); err != nil {
		return nil, translate(err)
	}
	return &meta, nil
}

// UpdateMetaSettingsTx only touches meta rows that have not been generated yet.
// It returns false when nothing was updated.
func (s *TournamentStore) UpdateMetaSettingsTx(ctx context.Context, tx *sqlx.Tx, meta *tournament.Meta) (bool, error) {
	result, err := tx.ExecContext(ctx, updateMetaSettingsQuery, meta.RoundsCount, meta.GameTypes, meta.TournamentID)
	if err != nil {
		return false, err
	}
	return affected(result)
}

// MarkGeneratedTx stamps generated_at if it is still unset. It returns false
// when another generation already got there.
func (s *TournamentStore) MarkGeneratedTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, at time.Time) (bool, error) {
	result, err := tx.ExecContext(ctx, markGeneratedQuery, at, tournamentID)
	if err != nil {
		return false, err
	}
	return affected(result)
}

func (s *TournamentStore) DeleteMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE tournament_id = ?", tournamentID)
	return err
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []tournament.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createMatchesQuery, matches)
	return translate(err)
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]tournament.Match, error) {
	matches := []tournament.Match{}
	err := s.db.SelectContext(ctx, &matches, getMatchesQuery, tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatch(ctx context.Context, tournamentID, matchID uuid.UUID) (*tournament.Match, error) {
	var match tournament.Match
	if err := s.db.GetContext(ctx, &match, getMatchQuery, matchID, tournamentID); err != nil {
		return nil, translate(err)
	}
	return &match, nil
}

func (s *TournamentStore) GetMatchByRound(ctx context.Context, tournamentID uuid.UUID, round int) (*tournament.Match, error) {
	var match tournament.Match
	if err := s.db.GetContext(ctx, &match, getMatchByRoundQuery, tournamentID, round); err != nil {
		return nil, translate(err)
	}
	return &match, nil
}

// SetWinnerTx overwrites the winner of a match, scoped to its tournament so a
// match ID from another tournament is reported as not found.
func (s *TournamentStore) SetWinnerTx(ctx context.Context, tx *sqlx.Tx, tournamentID, matchID uuid.UUID, side tournament.Side) error {
	result, err := tx.ExecContext(ctx, setWinnerQuery, side, matchID, tournamentID)
	if err != nil {
		return translate(err)
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rows > 0, nil
}

// translate maps driver errors onto the store's sentinel errors
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return err
}
