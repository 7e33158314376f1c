package tournament

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultRoundsCount = 5
	MaxRoundsCount     = 20
)

func DefaultGameTypes() StringList {
	return StringList{"Type A", "Type B", "Type C"}
}

// Meta holds the generation settings of a tournament. It is created lazily
// the first time someone looks at or changes the settings, and GeneratedAt
// goes from nil to set exactly once.
type Meta struct {
	TournamentID uuid.UUID  `db:"tournament_id"`
	RoundsCount  int        `db:"rounds_count"`
	GameTypes    StringList `db:"game_types"`
	GeneratedAt  *time.Time `db:"generated_at"`
}

func NewMeta(tournamentID uuid.UUID) Meta {
	return Meta{
		TournamentID: tournamentID,
		RoundsCount:  DefaultRoundsCount,
		GameTypes:    DefaultGameTypes(),
	}
}

func (m *Meta) Generated() bool {
	return m.GeneratedAt != nil
}

// GameTypeForRound cycles through the configured game types, so round r
// (1-indexed) always gets GameTypes[(r-1) mod len(GameTypes)].
func (m *Meta) GameTypeForRound(round int) string {
	types := m.GameTypes
	if len(types) == 0 {
		types = DefaultGameTypes()
	}
	return types[(round-1)%len(types)]
}
