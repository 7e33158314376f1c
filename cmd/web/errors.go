package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AdamBeresnev/tryouts/internal/httputil"
	"github.com/AdamBeresnev/tryouts/internal/middleware"
	"github.com/AdamBeresnev/tryouts/internal/service"
	"github.com/AdamBeresnev/tryouts/views"
	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP responses. Errors the user can
// fix are rendered as a notice page with a link back to where they came from.
func (app *application) respondError(w http.ResponseWriter, r *http.Request, err error, back templ.SafeURL) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httputil.NotFound(w, "Not found", err)
	case errors.Is(err, service.ErrAlreadyGenerated):
		if t, ok := middleware.GetTournament(r.Context()); ok {
			app.sessions.Put(r.Context(), flashKey, "Tournament was already generated.")
			http.Redirect(w, r, string(views.TournamentURL(t.Code)), http.StatusSeeOther)
			return
		}
		httputil.Conflict(w, "Tournament was already generated", err)
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidSide):
		app.notice(w, r, http.StatusBadRequest, "Check your input", err, back)
	case errors.Is(err, service.ErrDuplicatePlayer):
		app.notice(w, r, http.StatusConflict, "Already Registered", err, back)
	case errors.Is(err, service.ErrDuplicateCode):
		app.notice(w, r, http.StatusConflict, "Code Taken", err, back)
	case errors.Is(err, service.ErrRegistrationClosed):
		app.notice(w, r, http.StatusForbidden, "Registration Closed", err, back)
	case errors.Is(err, service.ErrInsufficientPlayers):
		app.notice(w, r, http.StatusUnprocessableEntity, "Not enough players yet", err, back)
	default:
		httputil.InternalServerError(w, "Request failed", err)
	}
}

func (app *application) notice(w http.ResponseWriter, r *http.Request, status int, title string, err error, back templ.SafeURL) {
	zap.L().Warn("request rejected",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	if renderErr := views.RenderStatus(w, r, status, views.NoticePage(title, noticeMessage(err), back)); renderErr != nil {
		zap.L().Error("failed to render notice", zap.Error(renderErr))
	}
}

// noticeMessage drops the validation prefix so users read "gamertag is
// required" rather than "validation failed: gamertag is required"
func noticeMessage(err error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, service.ErrValidation.Error()+": "); ok {
		return detail
	}
	return msg
}
