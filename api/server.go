// Package api exposes the live scene over HTTP: element status, transport
// controls and queuing new animations. It also serves the browser client.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/matt-g-everett/ledseq/stream"
	"github.com/matt-g-everett/ledseq/stream/chain"
	"github.com/rs/zerolog"
)

// Controller is the part of stream.Controller the API drives.
type Controller interface {
	Statuses() []stream.ElementStatus
	Pause()
	Resume()
	Abort()
	Animate(name string, steps []chain.Step, infinite bool) (string, error)
}

// AnimateRequest is the body of POST /elements/{name}/animate.
type AnimateRequest struct {
	Steps    []chain.Step `json:"steps"`
	Infinite bool         `json:"infinite"`
}

// AnimateResponse carries the ID of the queued sequence.
type AnimateResponse struct {
	Sequence string `json:"sequence"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Api struct {
	listen     string
	static     string
	controller Controller
	logger     zerolog.Logger
}

// NewApi creates an Api listening on listen. When static names an existing
// directory it is served at /.
func NewApi(listen, static string, controller Controller, logger zerolog.Logger) *Api {
	a := new(Api)
	a.listen = listen
	a.static = static
	a.controller = controller
	a.logger = logger
	return a
}

// Handler returns the routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /elements", a.handleElements)
	mux.HandleFunc("POST /pause", a.handleControl("pause", a.controller.Pause))
	mux.HandleFunc("POST /resume", a.handleControl("resume", a.controller.Resume))
	mux.HandleFunc("POST /abort", a.handleControl("abort", a.controller.Abort))
	mux.HandleFunc("POST /elements/{name}/animate", a.handleAnimate)

	if a.static != "" {
		if info, err := os.Stat(a.static); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(a.static)))
		} else {
			a.logger.Debug().Str("dir", a.static).Msg("no client to serve")
		}
	}
	return a.logRequests(mux)
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (a *Api) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.listen,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.listen).Msg("Listening...")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (a *Api) handleElements(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.controller.Statuses())
}

func (a *Api) handleControl(name string, fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		a.logger.Debug().Str("action", name).Msg("control")
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *Api) handleAnimate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req AnimateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := a.controller.Animate(name, req.Steps, req.Infinite)
	switch {
	case errors.Is(err, stream.ErrElementNotFound):
		a.writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	a.writeJSON(w, http.StatusAccepted, AnimateResponse{Sequence: id})
}

func (a *Api) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn().Err(err).Msg("write response")
	}
}

func (a *Api) writeError(w http.ResponseWriter, status int, err error) {
	a.writeJSON(w, status, errorResponse{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *Api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
