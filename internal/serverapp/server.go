// Package serverapp assembles the full HTTP application: config, storage,
// narrator, engine, routes, and middleware.
package serverapp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slemo54/LifeQuests/internal/config"
	"github.com/slemo54/LifeQuests/internal/game"
	"github.com/slemo54/LifeQuests/internal/guide"
	"github.com/slemo54/LifeQuests/internal/httpmw"
	"github.com/slemo54/LifeQuests/internal/server"
	"github.com/slemo54/LifeQuests/internal/store"
)

type Options struct {
	Config  *config.Config
	Balance config.Balance
	Clock   game.Clock
	Logger  *zap.Logger

	// Store overrides the config-driven storage selection, mainly for tests.
	Store store.Store

	// Narrator overrides the config-driven narrator selection.
	Narrator guide.Narrator
}

// NewHandler wires the whole application and returns the root handler plus
// the engine it runs on.
func NewHandler(opts Options) (http.Handler, *game.Engine, error) {
	if opts.Config == nil {
		return nil, nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	st := opts.Store
	if st == nil {
		var err error
		st, err = openStore(opts.Config)
		if err != nil {
			return nil, nil, err
		}
	}

	narrator := opts.Narrator
	if narrator == nil {
		if strings.TrimSpace(opts.Config.GeminiAPIKey) == "" {
			opts.Logger.Info("no narrator key configured, using fallback lines")
			narrator = guide.Silent{}
		} else {
			narrator = guide.NewGemini(opts.Config.GeminiAPIKey, opts.Config.GeminiModel, opts.Logger)
		}
	}

	engine, err := game.NewEngine(game.Options{
		Balance:  opts.Balance,
		Clock:    opts.Clock,
		Store:    st,
		Narrator: narrator,
		Logger:   opts.Logger,
	})
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = writeHealth(w)
	})

	rr := &server.RouteRegistry{}
	server.RegisterAPIRoutes(mux, rr, &server.App{Engine: engine})
	server.RegisterAdminUI(mux, rr, opts.Config.Addr)

	handler := httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	)
	return handler, engine, nil
}

// openStore picks SQLite when a db path is configured, JSON file otherwise.
func openStore(cfg *config.Config) (store.Store, error) {
	if strings.TrimSpace(cfg.DBPath) != "" {
		return store.OpenSQLite(cfg.DBPath)
	}
	return store.NewFileStore(cfg.DataDir)
}

func writeHealth(w http.ResponseWriter) error {
	_, err := w.Write([]byte(`{"ok":true,"service":"lifequests","time":"` +
		time.Now().UTC().Format(time.RFC3339) + `"}`))
	return err
}
