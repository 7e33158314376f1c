package views

import (
	"context"
	"strings"

	"github.com/AdamBeresnev/tryouts/internal/service"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/a-h/templ"
)

func HomePage(flash string) templ.Component {
	body := component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<form method="post" action="/tournaments">`)
		h.raw(`<label for="name">Tournament name</label>`)
		h.raw(`<input id="name" name="name" maxlength="100" placeholder="Example: Spring Tryouts" required>`)
		h.raw(`<label for="code">Tournament code</label>`)
		h.raw(`<input id="code" name="code" maxlength="32" placeholder="Example: SPRING26" required>`)
		h.raw(`<p class="muted">Letters, digits, dashes and underscores. Players join at /join/CODE.</p>`)
		h.raw(`<button type="submit">Create Tournament</button></form>`)
	})
	return layout("3v3 Tryouts", "Create a tournament, share the join link, generate rounds once players are in.", flash, body)
}

func JoinPage(data *service.JoinData, flash string) templ.Component {
	t := data.Tournament
	body := component(func(_ context.Context, h *htmlWriter) {
		if !data.Open {
			h.raw(`<div class="closed"><b>Registration closed.</b><br>Deadline was: <code>`)
			h.text(FormatTime(t.RegistrationDeadline))
			h.raw(`</code></div>`)
		} else {
			h.raw(`<div class="warning"><b>Registration is open for 24 hours only.</b><br>Closes at: <code>`)
			h.text(FormatTime(t.RegistrationDeadline))
			h.raw(`</code></div><div class="hr"></div>`)
			joinForm(h, t)
		}
		h.raw(`<div class="hr"></div>`)
		playerList(h, data.Players)
	})

	subtitle := "Enter your gamertag and availability to register."
	if !data.Open {
		subtitle = "Registration is closed."
	}
	return layout("Join: "+t.Name, subtitle, flash, body)
}

func joinForm(h *htmlWriter, t *tournament.Tournament) {
	h.raw(`<form method="post" action="`)
	h.url(JoinURL(t.Code))
	h.raw(`">`)
	h.raw(`<label for="gamertag">Gamertag</label>`)
	h.raw(`<input id="gamertag" name="gamertag" maxlength="50" placeholder="Example: PlayerOne" required>`)

	h.raw(`<label>Days Available (ET)</label><div class="days-box">`)
	for _, day := range tournament.Weekdays {
		h.raw(`<label class="day"><input type="checkbox" name="days" value="`)
		h.text(day)
		h.raw(`"> `)
		h.text(day)
		h.raw(`</label>`)
	}
	h.raw(`</div>`)

	h.raw(`<label for="time_window">Time Window (ET)</label>`)
	h.raw(`<select id="time_window" name="time_window" required><option value="">-- select --</option>`)
	for _, window := range tournament.TimeWindows {
		h.raw(`<option value="`)
		h.text(window)
		h.raw(`">`)
		h.text(window)
		h.raw(` ET</option>`)
	}
	h.raw(`</select>`)

	h.raw(`<label for="notes">Notes (optional)</label>`)
	h.raw(`<input id="notes" name="notes" placeholder="Example: Every other Wednesday">`)
	h.raw(`<p><button type="submit">Join Tournament</button></p></form>`)
}

func playerList(h *htmlWriter, players []tournament.Player) {
	h.rawf(`<h3>Registered Players (%d)</h3><ul>`, len(players))
	if len(players) == 0 {
		h.raw(`<li>No players yet</li>`)
	}
	for _, p := range players {
		h.raw(`<li><b>`)
		h.text(p.Gamertag)
		h.raw(`</b> <span class="muted">(`)
		h.text(FormatAvailability(p))
		h.raw(`)</span></li>`)
	}
	h.raw(`</ul>`)
}

// AdminPage shows links and settings. baseURL is the scheme and host used to
// print shareable links.
func AdminPage(data *service.AdminData, baseURL, flash string) templ.Component {
	t := data.Tournament
	body := component(func(_ context.Context, h *htmlWriter) {
		if data.Open {
			h.raw(`<div class="warning"><b>Registration OPEN</b><br>Closes at: <code>`)
		} else {
			h.raw(`<div class="closed"><b>Registration CLOSED</b><br>Closed at: <code>`)
		}
		h.text(FormatTime(t.RegistrationDeadline))
		h.raw(`</code></div><div class="hr"></div>`)

		h.raw(`<p><b>Join Link:</b></p><p><code>`)
		h.text(baseURL + string(JoinURL(t.Code)))
		h.raw(`</code></p><div class="hr"></div>`)

		if data.Meta.Generated() {
			h.raw(`<div class="success"><b>Tournament generated.</b><br>Tournament page: <a href="`)
			h.url(TournamentURL(t.Code))
			h.raw(`"><code>`)
			h.text(baseURL + string(TournamentURL(t.Code)))
			h.raw(`</code></a></div>`)
			h.rawf(`<p class="muted">%d rounds, game types: `, data.Meta.RoundsCount)
			h.text(strings.Join(data.Meta.GameTypes, ", "))
			h.raw(`</p>`)
		} else {
			settingsForm(h, t, data.Meta)
			h.raw(`<div class="hr"></div>`)
			if data.CanGenerate() {
				h.raw(`<form method="post" action="`)
				h.url(AdminURL(t.Code))
				h.raw(`/generate"><button type="submit">Generate Tournament</button></form>`)
			} else {
				h.rawf(`<p class="closed"><b>Need at least %d players</b> to generate a 3v3 tournament. Currently: %d</p>`,
					tournament.MinPlayers, len(data.Players))
			}
			h.raw(`<p class="muted">Tournament page will appear here after generation.</p>`)
		}

		h.raw(`<div class="hr"></div>`)
		playerList(h, data.Players)
	})

	return layout("Admin: "+t.Name, "Copy the join link and share it with players. Generate tournament when ready.", flash, body)
}

func settingsForm(h *htmlWriter, t *tournament.Tournament, meta *tournament.Meta) {
	h.raw(`<form method="post" action="`)
	h.url(AdminURL(t.Code))
	h.raw(`/settings"><label for="rounds">Rounds</label>`)
	h.rawf(`<input id="rounds" name="rounds" type="number" min="1" max="%d" value="%d" required>`,
		tournament.MaxRoundsCount, meta.RoundsCount)
	h.raw(`<label for="game_types">Game types (one per line, used in rotation)</label>`)
	h.raw(`<textarea id="game_types" name="game_types" rows="4" cols="30">`)
	h.text(strings.Join(meta.GameTypes, "\n"))
	h.raw(`</textarea><p><button type="submit">Save Settings</button></p></form>`)
}

func TournamentPage(data *service.BracketData, flash string) templ.Component {
	t := data.Tournament
	rounds := PrepareRoundsData(data.Matches)

	body := component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<p><a href="`)
		h.url(AdminURL(t.Code))
		h.raw(`">Back to Admin</a></p>`)
		h.rawf(`<p class="muted">%d of %d rounds decided</p><div class="hr"></div>`, rounds.Decided, len(rounds.Matches))

		for _, m := range rounds.Matches {
			matchBlock(h, t, m, true)
			h.raw(`<div class="hr"></div>`)
		}

		standingsTable(h, rounds.Standings)
	})

	subtitle := "Rounds generated. Record match winners below."
	if rounds.Complete() {
		subtitle = "All rounds decided."
	}
	return layout("Tournament: "+t.Name, subtitle, flash, body)
}

func RoundPage(data *service.RoundData, flash string) templ.Component {
	t, match := data.Tournament, data.Match
	body := component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<p><a href="`)
		h.url(TournamentURL(t.Code))
		h.raw(`">All rounds</a>`)
		if match.RoundNumber > 1 {
			h.raw(` | <a href="`)
			h.url(RoundURL(t.Code, match.RoundNumber-1))
			h.raw(`">Previous round</a>`)
		}
		if match.RoundNumber < data.TotalRounds {
			h.raw(` | <a href="`)
			h.url(RoundURL(t.Code, match.RoundNumber+1))
			h.raw(`">Next round</a>`)
		}
		h.raw(`</p><div class="hr"></div>`)
		matchBlock(h, t, *match, false)
	})
	return layout(t.Name, "", flash, body)
}

func matchBlock(h *htmlWriter, t *tournament.Tournament, m tournament.Match, linkRound bool) {
	h.rawf(`<div class="match" id="round-%d">`, m.RoundNumber)
	if linkRound {
		h.raw(`<a href="`)
		h.url(RoundURL(t.Code, m.RoundNumber))
		h.rawf(`"><b>Round %d</b></a>`, m.RoundNumber)
	} else {
		h.rawf(`<b>Round %d</b>`, m.RoundNumber)
	}
	h.raw(` <span class="muted">(`)
	h.text(m.GameType)
	h.raw(`)</span><br>`)

	for _, side := range []tournament.Side{tournament.SideA, tournament.SideB} {
		h.raw(`<span class="muted">`)
		h.text(SideLabel(side))
		h.raw(`:</span> `)
		if m.IsWinner(side) {
			h.raw(`<span class="winner">`)
			h.text(FormatTeam(m.Team(side)))
			h.raw(`</span>`)
		} else {
			h.text(FormatTeam(m.Team(side)))
		}
		h.raw(`<br>`)
	}

	h.raw(`<span class="muted">Winner:</span> <b>`)
	if m.Winner != nil {
		h.text(SideLabel(*m.Winner))
	} else {
		h.raw(`&mdash;`)
	}
	h.raw(`</b>`)

	h.raw(`<form method="post" action="`)
	h.url(WinnerURL(t.Code, m))
	h.raw(`"><select name="winner" required><option value="">Set winner&hellip;</option>`)
	for _, side := range []tournament.Side{tournament.SideA, tournament.SideB} {
		h.raw(`<option value="`)
		h.text(string(side))
		h.raw(`"`)
		if m.IsWinner(side) {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(SideLabel(side))
		h.raw(`</option>`)
	}
	h.raw(`</select> <button type="submit">Save Winner</button></form></div>`)
}

func standingsTable(h *htmlWriter, standings []Standing) {
	if len(standings) == 0 {
		return
	}
	h.raw(`<h3>Standings</h3><table><thead><tr><th>Player</th><th>Played</th><th>Wins</th></tr></thead><tbody>`)
	for _, s := range standings {
		h.raw(`<tr><td>`)
		h.text(s.Gamertag)
		h.rawf(`</td><td>%d</td><td>%d</td></tr>`, s.Played, s.Wins)
	}
	h.raw(`</tbody></table>`)
}

// NoticePage is used for errors the user can act on, like too few players
func NoticePage(title, message string, back templ.SafeURL) templ.Component {
	body := component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<p class="closed">`)
		h.text(message)
		h.raw(`</p>`)
		if back != "" {
			h.raw(`<p><a href="`)
			h.url(back)
			h.raw(`">Back</a></p>`)
		}
	})
	return layout(title, "", "", body)
}
