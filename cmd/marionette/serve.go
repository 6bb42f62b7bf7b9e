package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-go-golems/marionette/pkg/responder"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Expose the conversation pipeline over a small JSON API, suitable as a
backend for a browser front end rendering the avatar.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.coordinator.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/messages", a.getMessagesHandler)
		r.Post("/messages", a.postMessageHandler)
		r.Get("/config", a.getConfigHandler)
		r.Put("/config", a.putConfigHandler)
		r.Post("/runtime/init", a.initRuntimeHandler)
	})

	server := &http.Server{
		Addr:    serveAddr,
		Handler: router,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", serveAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("could not encode response")
	}
}

func (a *app) getMessagesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.transcript.Entries())
}

type postMessageRequest struct {
	Text string `json:"text"`
}

type postMessageResponse struct {
	Text       string               `json:"text"`
	HTML       string               `json:"html"`
	Animation  string               `json:"animation,omitempty"`
	Expression *responder.Expression `json:"expression,omitempty"`
}

func (a *app) postMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing text"})
		return
	}

	result := a.handleMessage(r.Context(), req.Text)

	entries := a.transcript.Entries()
	html := ""
	if len(entries) > 0 {
		html = entries[len(entries)-1].HTML
	}

	writeJSON(w, http.StatusOK, postMessageResponse{
		Text:       result.Text,
		HTML:       html,
		Animation:  result.Animation.String(),
		Expression: result.Expression,
	})
}

type configResponse struct {
	Provider  string   `json:"provider"`
	Providers []string `json:"providers"`
	Color     string   `json:"color"`
	Voice     string   `json:"voice,omitempty"`
	Ready     bool     `json:"embedded_ready"`
}

func (a *app) getConfigHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Provider:  a.dispatcher.Selected(),
		Providers: a.dispatcher.Strategies(),
		Color:     a.prefs.GetColor(),
		Voice:     a.prefs.GetVoice(),
		Ready:     a.runtime.Ready(),
	})
}

type configRequest struct {
	Provider string `json:"provider,omitempty"`
	Color    string `json:"color,omitempty"`
	Voice    string `json:"voice,omitempty"`
}

func (a *app) putConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	if req.Provider != "" {
		if err := a.dispatcher.Select(req.Provider); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	if req.Color != "" {
		a.prefs.SetColor(req.Color)
	}
	if req.Voice != "" {
		a.prefs.SetVoice(req.Voice)
	}

	a.getConfigHandler(w, r)
}

func (a *app) initRuntimeHandler(w http.ResponseWriter, r *http.Request) {
	if a.runtime.Ready() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	go func() {
		if err := a.runtime.Initialize(context.Background(), nil); err != nil {
			log.Warn().Err(err).Msg("embedded runtime initialization failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "initializing"})
}
