// Package basic provides small general-purpose tools: no-ops, counters,
// state printing, environment capture and HTTP fetching. They are useful
// both in real workflows and as fixtures when exercising the engine.
package basic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/state"
)

// Module implements registry.Module for this package. HTTPClient may be
// replaced before registration; http_fetch uses it for every request.
type Module struct {
	HTTPClient *http.Client
}

// Register binds the basic tools.
func (m Module) Register(r *registry.Registry) error {
	client := m.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	tools := map[string]registry.Func{
		"noop":       noop,
		"counter":    counter,
		"print":      printState,
		"env_vars":   envVars,
		"http_fetch": fetch(client),
	}
	for name, fn := range tools {
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// noop makes no state changes.
func noop(_ context.Context, _ state.State, _ map[string]any) (state.State, error) {
	return nil, nil
}

// counter increments a numeric state value by one. The key defaults to
// "count" and can be changed via config. A missing or non-numeric value
// counts from zero.
func counter(_ context.Context, st state.State, config map[string]any) (state.State, error) {
	key := "count"
	if k, ok := config["key"].(string); ok && k != "" {
		key = k
	}

	current, _ := numberOf(st[key])
	return state.State{key: current + 1}, nil
}

// printState logs the current state keys and values, sorted for stable
// output. It changes nothing.
func printState(ctx context.Context, st state.State, _ map[string]any) (state.State, error) {
	logger := ctxlog.FromContext(ctx)

	keys := make([]string, 0, len(st))
	for k := range st {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		logger.Info("State entry.", "key", k, "value", st[k])
	}
	return nil, nil
}

// envVars captures the process environment under state["env"].
func envVars(_ context.Context, _ state.State, _ map[string]any) (state.State, error) {
	env := make(map[string]any)
	for _, pair := range os.Environ() {
		if key, value, ok := strings.Cut(pair, "="); ok {
			env[key] = value
		}
	}
	return state.State{"env": env}, nil
}

// fetch returns the http_fetch tool bound to client. The URL comes from
// state["url"] or config["url"]; the response body lands under
// state["body"] with the status code under state["status_code"].
func fetch(client *http.Client) registry.Func {
	return func(ctx context.Context, st state.State, config map[string]any) (state.State, error) {
		url, _ := st["url"].(string)
		if url == "" {
			url, _ = config["url"].(string)
		}
		if url == "" {
			return nil, fmt.Errorf("http_fetch: no url in state or config")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("http_fetch: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http_fetch: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("http_fetch: reading response body: %w", err)
		}

		ctxlog.FromContext(ctx).Debug("Fetched URL.", "url", url, "status", resp.StatusCode)
		return state.State{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}, nil
	}
}

// numberOf widens a state value to float64, reporting whether it was
// numeric at all.
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
