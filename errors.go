/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Seednode/truthordare/games"
)

var errBadBody = errors.New("request body must be a JSON object")

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func logErr(err error) {
	log.Printf("%s | ERROR: %v", time.Now().Format(logDate), err)
}

func errorStatus(err error) int {
	if errors.Is(err, errBadBody) {
		return http.StatusBadRequest
	}

	switch games.KindOf(err) {
	case games.KindValidation:
		return http.StatusBadRequest
	case games.KindNotFound:
		return http.StatusNotFound
	case games.KindConflict, games.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// serveError writes err as a JSON error body. Server-side failures are
// logged and hidden from the client.
func serveError(cfg *Config, w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logErr(err)
		message = "Internal server error"
	}

	logf(cfg, "ERROR: %s %s from %s: %d %v", r.Method, r.URL.Path, realIP(r), status, err)

	writeJSON(cfg, w, status, errorBody{Error: message})
}
