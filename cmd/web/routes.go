package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/tryouts/internal/clock"
	"github.com/AdamBeresnev/tryouts/internal/httputil"
	"github.com/AdamBeresnev/tryouts/internal/middleware"
	"github.com/AdamBeresnev/tryouts/internal/service"
	"github.com/AdamBeresnev/tryouts/internal/store"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/AdamBeresnev/tryouts/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const flashKey = "flash"

type application struct {
	db            *sqlx.DB
	sessions      *scs.SessionManager
	tournaments   *service.TournamentService
	registrations *service.RegistrationService
	matches       *service.MatchService
}

func newApplication(db *sqlx.DB, sessions *scs.SessionManager, clk clock.Clock, notifier service.Notifier) *application {
	tournamentStore := store.NewTournamentStore(db)
	return &application{
		db:            db,
		sessions:      sessions,
		tournaments:   service.NewTournamentService(db, tournamentStore, clk),
		registrations: service.NewRegistrationService(db, tournamentStore, clk, notifier),
		matches:       service.NewMatchService(db, tournamentStore, clk, notifier),
	}
}

func (app *application) flash(r *http.Request, msg string) {
	app.sessions.Put(r.Context(), flashKey, msg)
}

func (app *application) popFlash(r *http.Request) string {
	return app.sessions.PopString(r.Context(), flashKey)
}

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(app.sessions.LoadAndSave)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := app.db.PingContext(r.Context()); err != nil {
			zap.L().Error("health check failed", zap.Error(err))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, r, views.HomePage(app.popFlash(r)))
	})

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httputil.BadRequest(w, "Invalid form data", err)
			return
		}

		t, err := app.tournaments.CreateTournament(r.Context(), r.Form.Get("name"), r.Form.Get("code"))
		if err != nil {
			app.respondError(w, r, err, "/")
			return
		}

		zap.L().Info("tournament created", zap.String("code", t.Code), zap.Time("deadline", t.RegistrationDeadline))
		app.flash(r, "Tournament created. Share the join link with players.")
		http.Redirect(w, r, string(views.AdminURL(t.Code)), http.StatusSeeOther)
	})

	r.Route("/join/{code}", func(r chi.Router) {
		r.Use(middleware.LoadTournament(app.tournaments))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())

			data, err := app.tournaments.GetJoinData(r.Context(), t)
			if err != nil {
				httputil.InternalServerError(w, "Failed to get join data", err)
				return
			}
			views.Render(w, r, views.JoinPage(data, app.popFlash(r)))
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}

			player, err := app.registrations.RegisterPlayer(r.Context(), t.ID, service.PlayerInput{
				Gamertag: r.Form.Get("gamertag"),
				Days:     r.Form["days"],
				Window:   r.Form.Get("time_window"),
				Notes:    r.Form.Get("notes"),
			})
			if err != nil {
				app.respondError(w, r, err, views.JoinURL(t.Code))
				return
			}

			zap.L().Info("player registered", zap.String("code", t.Code), zap.String("gamertag", player.Gamertag))
			app.flash(r, player.Gamertag+" is registered.")
			http.Redirect(w, r, string(views.JoinURL(t.Code)), http.StatusSeeOther)
		})
	})

	r.Route("/admin/{code}", func(r chi.Router) {
		r.Use(middleware.LoadTournament(app.tournaments))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())

			data, err := app.tournaments.GetAdminData(r.Context(), t)
			if err != nil {
				httputil.InternalServerError(w, "Failed to get admin data", err)
				return
			}
			views.Render(w, r, views.AdminPage(data, baseURL(r), app.popFlash(r)))
		})

		r.Post("/settings", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}

			rounds, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("rounds")))
			if err != nil {
				app.respondError(w, r, fmt.Errorf("%w: rounds must be a number", service.ErrValidation), views.AdminURL(t.Code))
				return
			}
			gameTypes := strings.Split(strings.ReplaceAll(r.Form.Get("game_types"), "\r\n", "\n"), "\n")

			if _, err := app.matches.UpdateSettings(r.Context(), t.ID, rounds, gameTypes); err != nil {
				app.respondError(w, r, err, views.AdminURL(t.Code))
				return
			}

			app.flash(r, "Settings saved.")
			http.Redirect(w, r, string(views.AdminURL(t.Code)), http.StatusSeeOther)
		})

		r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())

			matches, err := app.matches.Generate(r.Context(), t.ID)
			if err != nil {
				app.respondError(w, r, err, views.AdminURL(t.Code))
				return
			}

			zap.L().Info("tournament generated", zap.String("code", t.Code), zap.Int("rounds", len(matches)))
			app.flash(r, fmt.Sprintf("Generated %d rounds.", len(matches)))
			http.Redirect(w, r, string(views.TournamentURL(t.Code)), http.StatusSeeOther)
		})
	})

	r.Route("/t/{code}", func(r chi.Router) {
		r.Use(middleware.LoadTournament(app.tournaments))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())

			data, err := app.tournaments.GetBracketData(r.Context(), t)
			if errors.Is(err, service.ErrNotGenerated) {
				app.flash(r, "Tournament not generated yet.")
				http.Redirect(w, r, string(views.AdminURL(t.Code)), http.StatusSeeOther)
				return
			}
			if err != nil {
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}
			views.Render(w, r, views.TournamentPage(data, app.popFlash(r)))
		})

		r.Get("/rounds/{round}", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())

			round, err := strconv.Atoi(chi.URLParam(r, "round"))
			if err != nil {
				httputil.NotFound(w, "Round not found", err)
				return
			}

			data, err := app.tournaments.GetRoundData(r.Context(), t, round)
			if errors.Is(err, service.ErrNotGenerated) {
				app.flash(r, "Tournament not generated yet.")
				http.Redirect(w, r, string(views.AdminURL(t.Code)), http.StatusSeeOther)
				return
			}
			if err != nil {
				app.respondError(w, r, err, views.TournamentURL(t.Code))
				return
			}
			views.Render(w, r, views.RoundPage(data, app.popFlash(r)))
		})

		r.Post("/matches/{matchID}/winner", func(w http.ResponseWriter, r *http.Request) {
			t, _ := middleware.GetTournament(r.Context())

			matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
			if err != nil {
				httputil.NotFound(w, "Match not found", err)
				return
			}
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}

			side := tournament.ParseSide(r.Form.Get("winner"))
			match, err := app.matches.SetWinner(r.Context(), t, matchID, side)
			if err != nil {
				app.respondError(w, r, err, views.TournamentURL(t.Code))
				return
			}

			app.flash(r, fmt.Sprintf("Round %d: %s wins.", match.RoundNumber, views.SideLabel(side)))
			http.Redirect(w, r, fmt.Sprintf("%s#round-%d", views.TournamentURL(t.Code), match.RoundNumber), http.StatusSeeOther)
		})
	})

	return r
}

// baseURL is used to print absolute join links on the admin page
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
