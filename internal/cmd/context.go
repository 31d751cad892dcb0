package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/formlane/formlane/internal/api"
	"github.com/formlane/formlane/internal/cache"
	"github.com/formlane/formlane/internal/config"
	"github.com/formlane/formlane/internal/i18n"
	"github.com/formlane/formlane/internal/log"
	"github.com/formlane/formlane/internal/session"
	"github.com/formlane/formlane/internal/survey"
)

// surveyFreshness is how long a cached survey document is served
// without a background refetch.
const surveyFreshness = 30 * time.Second

// app bundles everything a command needs: config, logger, locale, the
// resource client and the cached data layer on top of it.
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	locale     i18n.Locale
	client     *survey.Client
	surveys    *cache.SurveyCache
	interviews *cache.InterviewCache
	sessions   *session.Store
}

// newApp loads configuration and wires the client stack. Called at the
// start of every RunE, after flags are parsed.
func newApp() (*app, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: log.ParseFormat(cfg.LogFormat),
		Output: os.Stderr,
	})
	log.SetDefaultLogger(logger)

	locale := i18n.Parse(cfg.Locale)
	if flagLocale != "" {
		locale = i18n.Parse(flagLocale)
	}

	jarPath := filepath.Join(cfg.StateDir, "cookies.json")
	transport, err := api.New(cfg.APIOrigin, cfg.RequestTimeout, jarPath, logger)
	if err != nil {
		return nil, err
	}

	client := survey.NewClient(transport)
	store := cache.NewStore(surveyFreshness)

	return &app{
		cfg:        cfg,
		logger:     logger,
		locale:     locale,
		client:     client,
		surveys:    cache.NewSurveyCache(store, client, logger),
		interviews: cache.NewInterviewCache(store, client, logger),
		sessions:   session.NewStore(cfg.StateDir),
	}, nil
}

// T resolves a message in the app locale.
func (a *app) T(key string, args ...string) string {
	return i18n.T(a.locale, key, args...)
}
