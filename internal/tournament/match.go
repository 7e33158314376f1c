package tournament

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TeamSize is the number of players on each side of a match.
const TeamSize = 3

// MinPlayers is the smallest roster that can fill one 3v3 match.
const MinPlayers = 2 * TeamSize

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// ParseSide accepts form input like " a " and returns the matching Side.
// Anything that is not A or B comes back as-is and fails Valid.
func ParseSide(s string) Side {
	return Side(strings.ToUpper(strings.TrimSpace(s)))
}

type Match struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	RoundNumber int    `db:"round_number"`
	GameType    string `db:"game_type"`

	// Gamertags, which are unique and immutable within a tournament
	TeamA StringList `db:"team_a"`
	TeamB StringList `db:"team_b"`

	Winner *Side `db:"winner"`

	CreatedAt time.Time `db:"created_at"`
}

func (m *Match) IsWinner(side Side) bool {
	return m.Winner != nil && *m.Winner == side
}

func (m *Match) Team(side Side) StringList {
	if side == SideB {
		return m.TeamB
	}
	return m.TeamA
}
