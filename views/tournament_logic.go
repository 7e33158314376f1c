package views

import (
	"sort"

	"github.com/AdamBeresnev/tryouts/internal/tournament"
)

type Standing struct {
	Gamertag string
	Played   int
	Wins     int
}

type RoundsData struct {
	Matches   []tournament.Match
	Decided   int
	Standings []Standing
}

func (d RoundsData) Complete() bool {
	return len(d.Matches) > 0 && d.Decided == len(d.Matches)
}

// PrepareRoundsData sorts matches by round and tallies how often each player
// played and won. Players who sat out every round are not listed.
func PrepareRoundsData(matches []tournament.Match) RoundsData {
	sorted := make([]tournament.Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RoundNumber < sorted[j].RoundNumber
	})

	tally := make(map[string]*Standing)
	get := func(gamertag string) *Standing {
		s, ok := tally[gamertag]
		if !ok {
			s = &Standing{Gamertag: gamertag}
			tally[gamertag] = s
		}
		return s
	}

	decided := 0
	for _, m := range sorted {
		for _, side := range []tournament.Side{tournament.SideA, tournament.SideB} {
			for _, gamertag := range m.Team(side) {
				s := get(gamertag)
				s.Played++
				if m.IsWinner(side) {
					s.Wins++
				}
			}
		}
		if m.Winner != nil {
			decided++
		}
	}

	standings := make([]Standing, 0, len(tally))
	for _, s := range tally {
		standings = append(standings, *s)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].Gamertag < standings[j].Gamertag
	})

	return RoundsData{Matches: sorted, Decided: decided, Standings: standings}
}
