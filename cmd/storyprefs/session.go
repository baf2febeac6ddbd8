package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	prefs "github.com/goliatone/go-storyprefs"
	"github.com/goliatone/go-storyprefs/internal/config"
	"github.com/goliatone/go-storyprefs/internal/logging"
	"github.com/goliatone/go-storyprefs/pkg/activity"
	"github.com/goliatone/go-storyprefs/pkg/controls"
	"github.com/goliatone/go-storyprefs/pkg/state"
)

// session is everything one command invocation needs, built from config.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend state.Backend
	store   *prefs.Store
	catalog *prefs.Catalog
	form    *controls.Form
}

func openSession(ctx context.Context, configPath string, logOut io.Writer) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(logOut, cfg.Log.Level, cfg.Log.Format)

	backend, err := state.Open(state.Kind(cfg.Storage.Backend), cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("storyprefs: open %s backend: %w", cfg.Storage.Backend, err)
	}

	evaluator, err := prefs.NewEvaluator(prefs.Engine(cfg.Rules.Engine),
		prefs.WithProgramCache(prefs.NewProgramCache()),
		prefs.WithFunctions(prefs.DefaultFunctions()),
	)
	if err != nil {
		_ = state.Close(backend)
		return nil, err
	}
	catalog := prefs.NewCatalog(
		prefs.WithRuleEvaluator(evaluator),
		prefs.WithEvaluatorLogger(prefs.SlogEvaluatorLogger(logger)),
	)

	emitter := activity.NewEmitter(activity.Hooks{activityLogHook(logger)}, activity.Config{
		Enabled: cfg.Activity.Enabled,
		Channel: cfg.Activity.Channel,
		UserID:  cfg.Activity.UserID,
	})

	store := prefs.NewStore(backend,
		prefs.WithKey(cfg.Storage.Key),
		prefs.WithLogger(logger),
		prefs.WithActivity(emitter),
	)
	if err := store.Load(ctx); err != nil {
		// The store already fell back to defaults; commands still run.
		logger.Warn("settings load failed", "error", err)
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		store:   store,
		catalog: catalog,
		form:    controls.NewForm(store, catalog),
	}, nil
}

func (s *session) Close() error {
	return state.Close(s.backend)
}

func activityLogHook(logger *slog.Logger) activity.ActivityHook {
	log := logger.With("component", "prefs.activity")
	return activity.HookFunc(func(_ context.Context, event activity.Event) error {
		log.Info("settings activity",
			"verb", event.Verb,
			"object_id", event.ObjectID,
			"channel", event.Channel,
			"metadata", event.Metadata,
		)
		return nil
	})
}
