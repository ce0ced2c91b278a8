// internal/server/timeouts.go
//
// http.Server construction.
//
// Context
// -------
// cmd/web assembles the chi mux, the app route table, and the middleware
// chain, then hands the finished handler to New together with the
// `http.listen_addr` setting.  Everything timeout-related lives here so
// the entry point stays declarative.
//
// The bounds suit the traffic Skiff serves, small HTML pages and uploads
// capped by `uploads.max_bytes`: headers must arrive within 5 s, a full
// request within 10 s, a response within 15 s, and idle keep-alive
// connections are dropped after a minute.
//
// Notes
// -----
// • TLSConfig is left nil; the HTTPS redirect middleware assumes a
//   terminating proxy in front when `http.force_https` is set.
// • Oxford commas, two spaces after periods.

package server

import (
	"net/http"
	"time"
)

// New returns an *http.Server for addr with the timeout bounds applied.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
