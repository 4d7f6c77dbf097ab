package app

import (
	"io"
	"log/slog"

	"github.com/vk/gridflow/internal/engine"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/runstore"
)

// App wires the tool registry, run store and engine together with a
// configured logger. Run records and the printed run result go to outW;
// logs go to errW so that one-shot output stays machine-readable.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	store    *runstore.Store
	engine   *engine.Engine
}

// NewApp constructs a fully wired App. When no modules are passed, the
// built-in tool modules are installed.
func NewApp(outW, errW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("Logger configured.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules()
	}
	if err := reg.Install(modules...); err != nil {
		return nil, err
	}
	logger.Debug("Tool modules installed.", "tools", reg.Names())

	store := runstore.NewStore()
	eng := engine.New(reg, store, engine.Options{MaxSteps: cfg.MaxSteps})

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		store:    store,
		engine:   eng,
	}, nil
}

// Engine exposes the engine facade, primarily for tests.
func (a *App) Engine() *engine.Engine { return a.engine }
