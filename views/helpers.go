package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/a-h/templ"
)

func FormatTime(t time.Time) string {
	return t.UTC().Format("Jan 02, 2006 03:04 PM UTC")
}

// FormatAvailability renders "Mon, Wed | 8pm-10pm ET | notes"
func FormatAvailability(p tournament.Player) string {
	parts := []string{strings.Join(p.AvailabilityDays, ", "), p.AvailabilityWindow + " ET"}
	if p.Notes != nil && *p.Notes != "" {
		parts = append(parts, *p.Notes)
	}
	return strings.Join(parts, " | ")
}

func FormatTeam(team []string) string {
	return strings.Join(team, ", ")
}

func SideLabel(side tournament.Side) string {
	return "Team " + string(side)
}

func JoinURL(code string) templ.SafeURL {
	return templ.SafeURL("/join/" + code)
}

func AdminURL(code string) templ.SafeURL {
	return templ.SafeURL("/admin/" + code)
}

func TournamentURL(code string) templ.SafeURL {
	return templ.SafeURL("/t/" + code)
}

func RoundURL(code string, round int) templ.SafeURL {
	return templ.SafeURL(fmt.Sprintf("/t/%s/rounds/%d", code, round))
}

func WinnerURL(code string, match tournament.Match) templ.SafeURL {
	return templ.SafeURL(fmt.Sprintf("/t/%s/matches/%s/winner", code, match.ID))
}
