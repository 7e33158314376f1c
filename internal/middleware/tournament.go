package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/tryouts/internal/httputil"
	"github.com/AdamBeresnev/tryouts/internal/service"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/go-chi/chi/v5"
)

type ContextKey string

const TournamentKey ContextKey = "tournament"

type TournamentFinder interface {
	FindByCode(ctx context.Context, code string) (*tournament.Tournament, error)
}

// LoadTournament resolves the {code} URL parameter and puts the tournament in
// the request context. Unknown codes get a 404 before any handler runs.
func LoadTournament(finder TournamentFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := chi.URLParam(r, "code")

			t, err := finder.FindByCode(r.Context(), code)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to load tournament", err)
				return
			}

			ctx := context.WithValue(r.Context(), TournamentKey, t)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetTournament(ctx context.Context) (*tournament.Tournament, bool) {
	t, ok := ctx.Value(TournamentKey).(*tournament.Tournament)
	return t, ok && t != nil
}
