package web

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"time"
)

// statusRecorder remembers the response code a handler wrote so the
// access log can show it. Handlers that never call WriteHeader count as
// 200, same as net/http treats them.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack forwards to the wrapped writer; the websocket upgrade needs it
// to reach the underlying connection through the logging wrapper.
func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, errors.New("response writer does not support hijacking")
}

// NilHandler answers 200 with an empty body, for the endpoints browsers
// insist on probing.
func NilHandler(w http.ResponseWriter, _ *http.Request) {}

// Logger wraps handler with one access-log line per request when verbose
// is set; name tags the route in the log.
func Logger(handler http.Handler, name string, verbose bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		t0 := time.Now()
		handler.ServeHTTP(rec, r)
		if verbose {
			log.Printf("%s - %s %s (%d) from %s in %s",
				name, r.Method, r.RequestURI, rec.status, r.RemoteAddr, time.Since(t0))
		}
	})
}
