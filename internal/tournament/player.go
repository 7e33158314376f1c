package tournament

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID                 uuid.UUID  `db:"id"`
	TournamentID       uuid.UUID  `db:"tournament_id"`
	Gamertag           string     `db:"gamertag"`
	AvailabilityDays   StringList `db:"availability_days"`
	AvailabilityWindow string     `db:"availability_window"`
	Notes              *string    `db:"notes"`
	RegisteredAt       time.Time  `db:"registered_at"`
}

// Weekdays are the accepted availability day tokens, in display order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// TimeWindows are the accepted availability slots (Eastern time).
var TimeWindows = []string{"6pm-8pm", "7pm-9pm", "8pm-10pm", "8pm-11pm", "9pm-11pm"}

func IsWeekday(day string) bool {
	return slices.Contains(Weekdays, day)
}

func IsTimeWindow(window string) bool {
	return slices.Contains(TimeWindows, window)
}
