package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tr, err := env.tournaments.CreateTournament(ctx, " Spring Tryouts ", " spring-26 ")
	require.NoError(t, err)
	assert.Equal(t, "Spring Tryouts", tr.Name)
	assert.Equal(t, "SPRING-26", tr.Code)
	assert.True(t, testStart.Equal(tr.CreatedAt))
	assert.True(t, testStart.Add(tournament.RegistrationWindow).Equal(tr.RegistrationDeadline))

	testCases := []struct {
		name string
		code string
		tn   string
		err  error
	}{
		{name: "missing name", tn: " ", code: "OK", err: ErrValidation},
		{name: "name too long", tn: strings.Repeat("n", 101), code: "OK", err: ErrValidation},
		{name: "missing code", tn: "Name", code: "", err: ErrValidation},
		{name: "code with spaces", tn: "Name", code: "two words", err: ErrValidation},
		{name: "code with slash", tn: "Name", code: "a/b", err: ErrValidation},
		{name: "code too long", tn: "Name", code: strings.Repeat("C", 33), err: ErrValidation},
		{name: "duplicate code", tn: "Name", code: "SPRING-26", err: ErrDuplicateCode},
		{name: "duplicate code in another case", tn: "Name", code: "Spring-26", err: ErrDuplicateCode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.tournaments.CreateTournament(ctx, tc.tn, tc.code)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestFindByCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.createTournament(t, "FINDME")

	found, err := env.tournaments.FindByCode(ctx, "findme")
	require.NoError(t, err)
	assert.Equal(t, tr.ID, found.ID)

	_, err = env.tournaments.FindByCode(ctx, "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJoinAndAdminData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.createTournament(t, "VIEWS")
	env.registerPlayers(t, tr, 6)

	join, err := env.tournaments.GetJoinData(ctx, tr)
	require.NoError(t, err)
	assert.True(t, join.Open)
	require.Len(t, join.Players, 6)
	assert.Equal(t, "P6", join.Players[0].Gamertag, "join page shows newest first")

	admin, err := env.tournaments.GetAdminData(ctx, tr)
	require.NoError(t, err)
	require.Len(t, admin.Players, 6)
	assert.Equal(t, "P1", admin.Players[0].Gamertag, "admin page shows registration order")
	assert.Equal(t, tournament.DefaultRoundsCount, admin.Meta.RoundsCount)
	assert.False(t, admin.Meta.Generated())
	assert.True(t, admin.CanGenerate())

	env.clock.Advance(tournament.RegistrationWindow)
	admin, err = env.tournaments.GetAdminData(ctx, tr)
	require.NoError(t, err)
	assert.False(t, admin.Open)

	_, err = env.matches.Generate(ctx, tr.ID)
	require.NoError(t, err)

	admin, err = env.tournaments.GetAdminData(ctx, tr)
	require.NoError(t, err)
	assert.True(t, admin.Meta.Generated())
	assert.False(t, admin.CanGenerate())
}

func TestGetAdminData_NotEnoughPlayers(t *testing.T) {
	env := newTestEnv(t)
	tr := env.createTournament(t, "SMALL")
	env.registerPlayers(t, tr, 5)

	admin, err := env.tournaments.GetAdminData(context.Background(), tr)
	require.NoError(t, err)
	assert.False(t, admin.CanGenerate())
}

func TestGetBracketDataAndRounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.createTournament(t, "BRACKET")
	env.registerPlayers(t, tr, 6)

	_, err := env.tournaments.GetBracketData(ctx, tr)
	assert.ErrorIs(t, err, ErrNotGenerated)

	env.clock.Advance(time.Hour)
	generated, err := env.matches.Generate(ctx, tr.ID)
	require.NoError(t, err)

	data, err := env.tournaments.GetBracketData(ctx, tr)
	require.NoError(t, err)
	require.Len(t, data.Matches, len(generated))
	assert.True(t, data.Meta.Generated())

	round, err := env.tournaments.GetRoundData(ctx, tr, 2)
	require.NoError(t, err)
	assert.Equal(t, generated[1].ID, round.Match.ID)
	assert.Equal(t, "Type B", round.Match.GameType)
	assert.Equal(t, len(generated), round.TotalRounds)

	_, err = env.tournaments.GetRoundData(ctx, tr, len(generated)+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRoundData_BeforeGeneration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.createTournament(t, "EARLY")

	_, err := env.tournaments.GetRoundData(ctx, tr, 1)
	assert.ErrorIs(t, err, ErrNotGenerated)
}

func TestGetRoundData_TotalFollowsSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.createTournament(t, "THREE")
	env.registerPlayers(t, tr, 6)

	_, err := env.matches.UpdateSettings(ctx, tr.ID, 3, nil)
	require.NoError(t, err)
	_, err = env.matches.Generate(ctx, tr.ID)
	require.NoError(t, err)

	last, err := env.tournaments.GetRoundData(ctx, tr, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, last.TotalRounds)
	assert.Equal(t, 3, last.Match.RoundNumber)
}
