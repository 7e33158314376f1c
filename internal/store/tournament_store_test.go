package store

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/AdamBeresnev/tryouts/internal/utils"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// Every new connection would get its own empty in-memory database
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func createTestTournament(t *testing.T, db *sqlx.DB, store *TournamentStore, code string) *tournament.Tournament {
	t.Helper()

	tr := tournament.New("Test Tournament", code, time.Now())

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTournament(context.Background(), tx, &tr))
	require.NoError(t, tx.Commit())

	return &tr
}

func TestCreateTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()

	tr := createTestTournament(t, db, store, "tryouts")

	fetched, err := store.GetTournament(ctx, tr.ID)
	require.NoError(t, err)

	assert.Equal(t, tr.ID, fetched.ID)
	assert.Equal(t, "TRYOUTS", fetched.Code)
	assert.Equal(t, tr.Name, fetched.Name)
	assert.WithinDuration(t, tr.CreatedAt, fetched.CreatedAt, time.Second)
	assert.True(t, tr.RegistrationDeadline.Equal(fetched.RegistrationDeadline))

	byCode, err := store.GetTournamentByCode(ctx, " TryOuts ")
	require.NoError(t, err)
	assert.Equal(t, tr.ID, byCode.ID)

	_, err = store.GetTournamentByCode(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTournament_DuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	createTestTournament(t, db, store, "SAME")

	dup := tournament.New("Other", "same", time.Now())
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = store.CreateTournament(context.Background(), tx, &dup)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreatePlayers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tr := createTestTournament(t, db, store, "PLAYERS")

	base := time.Now().UTC()
	players := []tournament.Player{
		{ID: uuid.New(), TournamentID: tr.ID, Gamertag: "First", AvailabilityDays: tournament.StringList{"Mon", "Wed"}, AvailabilityWindow: "6pm-8pm", Notes: utils.StringOrNil("every other week"), RegisteredAt: base},
		// Same timestamp as the first one, insertion order still wins
		{ID: uuid.New(), TournamentID: tr.ID, Gamertag: "Second", AvailabilityDays: tournament.StringList{"Sun"}, AvailabilityWindow: "9pm-11pm", RegisteredAt: base},
		{ID: uuid.New(), TournamentID: tr.ID, Gamertag: "Third", AvailabilityDays: tournament.StringList{"Fri"}, AvailabilityWindow: "8pm-10pm", RegisteredAt: base.Add(time.Second)},
	}

	for i := range players {
		tx, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, store.CreatePlayer(ctx, tx, &players[i]))
		require.NoError(t, tx.Commit())
	}

	asc, err := store.GetPlayers(ctx, tr.ID, OrderInsertionAsc)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "First", asc[0].Gamertag)
	assert.Equal(t, "Second", asc[1].Gamertag)
	assert.Equal(t, "Third", asc[2].Gamertag)
	assert.Equal(t, tournament.StringList{"Mon", "Wed"}, asc[0].AvailabilityDays)
	assert.Equal(t, "every other week", *asc[0].Notes)
	assert.Nil(t, asc[1].Notes)

	desc, err := store.GetPlayers(ctx, tr.ID, OrderInsertionDesc)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, "Third", desc[0].Gamertag)
	assert.Equal(t, "Second", desc[1].Gamertag)
	assert.Equal(t, "First", desc[2].Gamertag)
}

func TestCreatePlayer_DuplicateGamertag(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tr := createTestTournament(t, db, store, "DUP")
	other := createTestTournament(t, db, store, "OTHER")

	insert := func(tournamentID uuid.UUID, gamertag string) error {
		tx, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		p := tournament.Player{ID: uuid.New(), TournamentID: tournamentID, Gamertag: gamertag, AvailabilityDays: tournament.StringList{"Mon"}, AvailabilityWindow: "6pm-8pm", RegisteredAt: time.Now().UTC()}
		if err := store.CreatePlayer(ctx, tx, &p); err != nil {
			return err
		}
		return tx.Commit()
	}

	require.NoError(t, insert(tr.ID, "Ghost"))
	assert.ErrorIs(t, insert(tr.ID, "Ghost"), ErrConflict)
	assert.ErrorIs(t, insert(tr.ID, "gHOST"), ErrConflict, "gamertags are compared without case")
	assert.NoError(t, insert(other.ID, "Ghost"), "uniqueness is per tournament")

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	exists, err := store.PlayerExistsTx(ctx, tx, tr.ID, "GHOST")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.PlayerExistsTx(ctx, tx, tr.ID, "Phantom")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMetaLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tr := createTestTournament(t, db, store, "META")

	_, err := store.GetMeta(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	meta, err := store.EnsureMetaTx(ctx, tx, tournament.NewMeta(tr.ID))
	require.NoError(t, err)
	assert.Equal(t, tournament.DefaultRoundsCount, meta.RoundsCount)
	assert.Equal(t, tournament.DefaultGameTypes(), meta.GameTypes)
	assert.Nil(t, meta.GeneratedAt)

	meta.RoundsCount = 3
	meta.GameTypes = tournament.StringList{"King of the Hill"}
	updated, err := store.UpdateMetaSettingsTx(ctx, tx, meta)
	require.NoError(t, err)
	assert.True(t, updated)

	// A second ensure must not reset the settings
	again, err := store.EnsureMetaTx(ctx, tx, tournament.NewMeta(tr.ID))
	require.NoError(t, err)
	assert.Equal(t, 3, again.RoundsCount)
	require.NoError(t, tx.Commit())

	at := time.Now().UTC()
	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	marked, err := store.MarkGeneratedTx(ctx, tx, tr.ID, at)
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = store.MarkGeneratedTx(ctx, tx, tr.ID, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, marked, "generated_at is only ever set once")

	updated, err = store.UpdateMetaSettingsTx(ctx, tx, again)
	require.NoError(t, err)
	assert.False(t, updated, "settings are frozen after generation")
	require.NoError(t, tx.Commit())

	fetched, err := store.GetMeta(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.GeneratedAt)
	assert.True(t, at.Equal(*fetched.GeneratedAt))
}

func TestCreateMatchesAndSetWinner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tr := createTestTournament(t, db, store, "MATCHES")
	other := createTestTournament(t, db, store, "ELSEWHERE")

	now := time.Now().UTC()
	matches := []tournament.Match{
		{ID: uuid.New(), TournamentID: tr.ID, RoundNumber: 2, GameType: "Type B", TeamA: tournament.StringList{"a", "b", "c"}, TeamB: tournament.StringList{"d", "e", "f"}, CreatedAt: now},
		{ID: uuid.New(), TournamentID: tr.ID, RoundNumber: 1, GameType: "Type A", TeamA: tournament.StringList{"f", "e", "d"}, TeamB: tournament.StringList{"c", "b", "a"}, CreatedAt: now},
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateMatches(ctx, tx, matches))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetMatches(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, fetched, 2)
	assert.Equal(t, 1, fetched[0].RoundNumber)
	assert.Equal(t, matches[1].ID, fetched[0].ID)
	assert.Equal(t, tournament.StringList{"f", "e", "d"}, fetched[0].TeamA)
	assert.Nil(t, fetched[0].Winner)

	round2, err := store.GetMatchByRound(ctx, tr.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, matches[0].ID, round2.ID)

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetWinnerTx(ctx, tx, tr.ID, matches[0].ID, tournament.SideB))
	err = store.SetWinnerTx(ctx, tx, other.ID, matches[0].ID, tournament.SideA)
	assert.ErrorIs(t, err, ErrNotFound, "match must belong to the tournament")
	require.NoError(t, tx.Commit())

	match, err := store.GetMatch(ctx, tr.ID, matches[0].ID)
	require.NoError(t, err)
	require.NotNil(t, match.Winner)
	assert.Equal(t, tournament.SideB, *match.Winner)

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.DeleteMatchesTx(ctx, tx, tr.ID))
	require.NoError(t, tx.Commit())

	fetched, err = store.GetMatches(ctx, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched)
}
