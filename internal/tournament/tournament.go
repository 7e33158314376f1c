package tournament

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RegistrationWindow is how long a tournament accepts players after creation.
// The deadline is fixed when the tournament is created and never extended.
const RegistrationWindow = 24 * time.Hour

type Tournament struct {
	ID                   uuid.UUID `db:"id"`
	Code                 string    `db:"code"`
	Name                 string    `db:"name" json:"name"`
	RegistrationDeadline time.Time `db:"registration_deadline"`
	CreatedAt            time.Time `db:"created_at"`
}

func New(name, code string, now time.Time) Tournament {
	created := now.UTC()
	return Tournament{
		ID:                   uuid.New(),
		Code:                 NormalizeCode(code),
		Name:                 strings.TrimSpace(name),
		RegistrationDeadline: created.Add(RegistrationWindow),
		CreatedAt:            created,
	}
}

// RegistrationOpen reports whether players may still join at now.
// The window is inclusive of the deadline itself and has no grace period.
// Both the join page and the registration write path go through here.
func (t *Tournament) RegistrationOpen(now time.Time) bool {
	return !now.After(t.RegistrationDeadline)
}

// Codes are compared case-insensitively, so they are stored upper-cased
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
