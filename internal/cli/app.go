package cli

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"autodevstack/internal/aiservice"
	"autodevstack/internal/config"
	"autodevstack/internal/console"
	"autodevstack/internal/hub"
	"autodevstack/internal/logging"
	"autodevstack/internal/registry"
)

// errReported marks failures already printed on the console.
var errReported = errors.New("reported")

// app is the wiring shared by commands: resolved config, logger, console,
// Hub client and AI service.
type app struct {
	cfg config.Config
	log zerolog.Logger
	con *console.Printer
	hub *hub.Client
	ai  *aiservice.Service
}

func newApp(g *Globals) (*app, error) {
	cfg, err := config.Resolve(g.ConfigPath)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	log := logging.New(cfg.LogLevel, g.errw())
	reg := registry.Default()
	if err := reg.LoadFile(cfg.RegistryPath); err != nil {
		return nil, err
	}
	hc := hub.New(hub.Options{
		HubURL:    cfg.HubURL,
		RouterURL: cfg.RouterURL,
		Token:     cfg.HFToken,
		RetryMax:  cfg.HTTPRetryMax,
		Timeout:   time.Duration(cfg.HTTPTimeoutS) * time.Second,
		Logger:    log.With().Str("component", "hub").Logger(),
	})
	svc := aiservice.New(aiservice.Config{
		Token:  cfg.HFToken,
		Client: hc,
		Selector: aiservice.Selector{
			CachePath: cfg.BestModelsPath,
			Overrides: aiservice.Overrides{Text: cfg.ModelText, Chat: cfg.ModelChat, Image: cfg.ModelImage},
		},
		Registry: reg,
		WorkDir:  ".",
		Logger:   log.With().Str("component", "aiservice").Logger(),
	})
	return &app{
		cfg: cfg,
		log: log,
		con: &console.Printer{Out: g.out(), Err: g.errw(), Tag: "autodevstack"},
		hub: hc,
		ai:  svc,
	}, nil
}

// requireToken reports a missing Hugging Face token for commands that
// cannot do anything useful without one.
func (a *app) requireToken() error {
	if a.cfg.HFToken != "" {
		return nil
	}
	a.con.Errorf("%v", aiservice.ErrMissingToken)
	return errors.Join(errReported, aiservice.ErrMissingToken)
}

// fail prints err on the console and marks it reported.
func (a *app) fail(err error) error {
	a.con.Errorf("%v", err)
	return errors.Join(errReported, err)
}
