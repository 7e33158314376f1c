package httputil

import (
	"net/http"

	"go.uber.org/zap"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	clientError(w, http.StatusBadRequest, "bad request", msg, err)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	clientError(w, http.StatusNotFound, "not found", msg, err)
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	clientError(w, http.StatusConflict, "conflict", msg, err)
}

// Client errors are logged at warn, they are expected in normal use
func clientError(w http.ResponseWriter, status int, kind, msg string, err error) {
	fields := []zap.Field{zap.String("message", msg), zap.Int("status", status)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	zap.L().Warn(kind, fields...)
	http.Error(w, msg, status)
}
