package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AdamBeresnev/tryouts/internal/service"
	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type finderFunc func(ctx context.Context, code string) (*tournament.Tournament, error)

func (f finderFunc) FindByCode(ctx context.Context, code string) (*tournament.Tournament, error) {
	return f(ctx, code)
}

func TestLoadTournament(t *testing.T) {
	known := tournament.New("Known", "KNOWN", time.Now())

	finder := finderFunc(func(_ context.Context, code string) (*tournament.Tournament, error) {
		switch tournament.NormalizeCode(code) {
		case "KNOWN":
			return &known, nil
		case "BROKEN":
			return nil, errors.New("database is locked")
		default:
			return nil, service.ErrNotFound
		}
	})

	r := chi.NewRouter()
	r.With(LoadTournament(finder)).Get("/join/{code}", func(w http.ResponseWriter, r *http.Request) {
		tr, ok := GetTournament(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(tr.Name))
	})

	testCases := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{name: "known code", path: "/join/KNOWN", status: http.StatusOK, body: "Known"},
		{name: "code is case-insensitive", path: "/join/known", status: http.StatusOK, body: "Known"},
		{name: "unknown code", path: "/join/NOPE", status: http.StatusNotFound, body: "Tournament not found"},
		{name: "store failure", path: "/join/BROKEN", status: http.StatusInternalServerError, body: "Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestGetTournamentMissing(t *testing.T) {
	_, ok := GetTournament(context.Background())
	assert.False(t, ok)
}
