package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	testCases := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		body   string
		level  zapcore.Level
	}{
		{name: "bad request", write: func(w http.ResponseWriter) { BadRequest(w, "Invalid form data", nil) }, status: http.StatusBadRequest, body: "Invalid form data", level: zapcore.WarnLevel},
		{name: "not found", write: func(w http.ResponseWriter) { NotFound(w, "Tournament not found", errors.New("missing")) }, status: http.StatusNotFound, body: "Tournament not found", level: zapcore.WarnLevel},
		{name: "conflict", write: func(w http.ResponseWriter) { Conflict(w, "Already taken", nil) }, status: http.StatusConflict, body: "Already taken", level: zapcore.WarnLevel},
		{name: "internal error hides details", write: func(w http.ResponseWriter) { InternalServerError(w, "db exploded", errors.New("disk full")) }, status: http.StatusInternalServerError, body: "Internal Server Error", level: zapcore.ErrorLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs.TakeAll()
			rec := httptest.NewRecorder()

			tc.write(rec)

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
			entries := logs.TakeAll()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tc.level, entries[0].Level)
			}
		})
	}
}
