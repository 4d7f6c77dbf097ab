package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/hclspec"
	"github.com/vk/gridflow/internal/runstore"
	"github.com/vk/gridflow/internal/server"
	"github.com/vk/gridflow/internal/state"
)

// Run executes the configured mode: serve the HTTP API when Listen is set,
// otherwise run the workflow file once and print the sealed record.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if cfg.Listen != "" {
		return a.serve(ctx, cfg)
	}
	return a.runOnce(ctx, cfg)
}

// runOnce loads the workflow, runs it with the configured initial state and
// writes the sealed record as JSON. A faulted run becomes a non-nil error
// after the record has been printed, so the process exits non-zero.
func (a *App) runOnce(ctx context.Context, cfg *Config) error {
	def, err := hclspec.Load(cfg.WorkflowPath)
	if err != nil {
		return err
	}

	handle, err := a.engine.CreateGraph(def)
	if err != nil {
		return err
	}
	a.logger.Debug("Graph created.", "graphID", handle.ID, "name", def.Name)

	initial := state.New()
	if cfg.InitialStateJSON != "" {
		if err := json.Unmarshal([]byte(cfg.InitialStateJSON), &initial); err != nil {
			return fmt.Errorf("parsing initial state: %w", err)
		}
	}

	record, err := a.engine.Run(ctx, handle, initial)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return err
	}

	if record.Status == runstore.StatusFaulted {
		return fmt.Errorf("run %s faulted: %s", record.RunID, record.Fault.Message)
	}
	return nil
}

// serve preloads the example workflow (or the one at WorkflowPath) and
// serves the HTTP API until ctx is canceled.
func (a *App) serve(ctx context.Context, cfg *Config) error {
	def := exampleDefinition()
	if cfg.WorkflowPath != "" {
		loaded, err := hclspec.Load(cfg.WorkflowPath)
		if err != nil {
			return err
		}
		def = loaded
	}

	handle, err := a.engine.CreateGraph(def)
	if err != nil {
		return err
	}
	a.logger.Info("Example workflow loaded.", "graphID", handle.ID, "name", def.Name)

	srv := server.New(a.engine, a.logger, handle.ID)
	httpServer := &http.Server{Addr: cfg.Listen, Handler: srv.Handler()}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	a.logger.Info("HTTP API listening.", "addr", cfg.Listen)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
