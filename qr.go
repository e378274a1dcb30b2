package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/truthordare/store"
)

const qrSize = 320

// gameURL derives the public URL of a game resource from the request,
// respecting TLS and X-Forwarded-Proto if present.
func gameURL(cfg *Config, r *http.Request, gameID string) string {
	scheme := cfg.scheme()
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(proto)
	}

	return scheme + "://" + r.Host + cfg.prefix + "/api/games/" + gameID
}

// serveQR renders a PNG QR code pointing at the game, so other players can
// join from their phones.
func serveQR(cfg *Config, st *store.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		game, err := st.GetGame(r.Context(), ps.ByName("id"))
		if err != nil {
			serveError(cfg, w, r, err)

			return
		}

		png, err := qrcode.Encode(gameURL(cfg, r, game.ID), qrcode.Medium, qrSize)
		if err != nil {
			serveError(cfg, w, r, err)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			logErr(err)

			return
		}

		logf(cfg, "SERVE: QR code for game %s (%s) to %s in %s",
			game.ID,
			humanize.Bytes(uint64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
