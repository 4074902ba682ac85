// Package servecmder provides the serve command that runs the compass HTTP server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deencompass/compass/api"
	"github.com/deencompass/compass/api/worker"
	"github.com/deencompass/compass/pkg/config"
	eventstreamutils "github.com/deencompass/compass/pkg/eventstream/utils"
	"github.com/deencompass/compass/pkg/llm/provider"
	"github.com/deencompass/compass/pkg/llm/provider/anthropic"
	"github.com/deencompass/compass/pkg/llm/provider/gemini"
	"github.com/deencompass/compass/pkg/llm/provider/groq"
	"github.com/deencompass/compass/pkg/llm/provider/openai"
	"github.com/deencompass/compass/pkg/logger"
	"github.com/deencompass/compass/pkg/utils"
)

type serveCommander struct {
	configDir string
	envFile   string
	debug     bool

	// Flag targets. Their values reach cfg through viper.
	listen       string
	providerName string
	strict       bool
	eventsDriver string
	kafkaBrokers string
	kafkaTopic   string
	logJSON      bool
	logFile      string
	web          bool

	cfg     *config.Config
	logger  *slog.Logger
	closers []func() error
}

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagProvider,
	config.FlagStrict,
	config.FlagEventsDriver,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
	config.FlagLogJSON,
	config.FlagLogFile,
	config.FlagWeb,
}

const serveLongDesc string = `Run the compass HTTP server.

Exactly one provider adapter is resolved at startup from provider.name and
shared by every request. An unknown provider or missing credentials stop the
server before it listens.

Routes:
  GET  /health      Provider, model and effective generation parameters
  POST /api/chat    {"messages":[{"role":"user","content":"..."}]} -> {"text":"..."}
  GET  /            Bundled web client (disable with --web=false)

Configuration is read from flags, COMPASS_* environment variables, the
legacy variable names (OPENAI_API_KEY, LLM_PROVIDER, GEN_MAX_TOKENS, ...),
the .env file and .compass/config.toml, in that order.

Examples:
  compass serve
  compass serve --provider groq --listen :9000
  compass serve --events-driver kafka --kafka-brokers localhost:9092`

const serveShortDesc string = "Run the compass HTTP server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.envFile, _ = cmd.Flags().GetString("env-file")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagProvider, &cmder.providerName)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagStrict, &cmder.strict)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsDriver, &cmder.eventsDriver)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagKafkaTopic, &cmder.kafkaTopic)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagLogJSON, &cmder.logJSON)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagLogFile, &cmder.logFile)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagWeb, &cmder.web)

	return cmd
}

func (c *serveCommander) loadConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(c.envFile); err != nil {
		return err
	}

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)

	c.cfg = config.FromViper(v, logger.New(logger.WithPretty(true), logger.WithWriter(os.Stderr)))
	return nil
}

func (c *serveCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := c.setupLogger(); err != nil {
		return err
	}
	defer c.close()

	server, pool, err := c.build(ctx)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		_ = pool.Close()
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
	}

	// Stop accepting requests first so no event is enqueued after the pool closes.
	if err := server.Shutdown(); err != nil {
		c.logger.Warn("server shutdown failed", "error", err)
	}
	if err := pool.Close(); err != nil {
		c.logger.Warn("closing event publisher failed", "error", err)
	}

	return nil
}

// build resolves the adapter and wires the event pipeline. Every
// configuration problem surfaces here, before anything listens.
func (c *serveCommander) build(ctx context.Context) (*api.Server, *worker.Pool, error) {
	adapter, err := provider.New(ctx, c.cfg.Provider.Name, c.settings())
	if err != nil {
		return nil, nil, err
	}

	if c.cfg.Provider.Strict {
		if err := provider.CheckKnobs(adapter, c.cfg.Generation); err != nil {
			return nil, nil, err
		}
	} else if _, dropped := c.cfg.Generation.Only(adapter.Knobs()...); len(dropped) > 0 {
		c.logger.Debug("generation parameters not used by provider",
			"provider", adapter.Name(),
			"ignored", dropped,
		)
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		Driver:  c.cfg.Events.Driver,
		Brokers: c.cfg.Events.BrokerList(),
		Topic:   c.cfg.Events.Topic,
		Logger:  c.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating event publisher: %w", err)
	}

	pool, err := worker.NewPool(&worker.Config{
		Publisher:  publisher,
		NumWorkers: c.cfg.Events.Workers,
		QueueSize:  c.cfg.Events.QueueSize,
		Logger:     c.logger,
	})
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("creating worker pool: %w", err)
	}

	c.logger.Info("provider resolved",
		"provider", adapter.Name(),
		"model", adapter.Model(),
		"style", adapter.Style(),
		"events", c.cfg.Events.Driver,
	)

	server := api.NewServer(api.Config{
		ListenAddr:  c.cfg.Server.Listen,
		CORSOrigins: c.cfg.Server.CORSOrigins,
		Policy:      c.cfg.Policy.Instruction,
		Generation:  c.cfg.Generation,
		ServeWeb:    c.cfg.Server.Web,
	}, adapter, pool, c.logger)

	return server, pool, nil
}

func (c *serveCommander) settings() provider.Settings {
	cfg := c.cfg
	return provider.Settings{
		OpenAI: openai.Config{
			APIKey:       cfg.OpenAI.APIKey,
			Model:        cfg.OpenAI.Model,
			BaseURL:      cfg.OpenAI.BaseURL,
			Organization: cfg.OpenAI.Organization,
			Project:      cfg.OpenAI.Project,
		},
		Groq: groq.Config{
			APIKey:  cfg.Groq.APIKey,
			Model:   cfg.Groq.Model,
			BaseURL: cfg.Groq.BaseURL,
		},
		Gemini: gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		},
		Anthropic: anthropic.Config{
			APIKey:  cfg.Anthropic.APIKey,
			Model:   cfg.Anthropic.Model,
			BaseURL: cfg.Anthropic.BaseURL,
		},
		Logger: c.logger,
	}
}

// setupLogger builds the service logger: text or JSON on stdout, plus a JSON
// copy in log.file when set.
func (c *serveCommander) setupLogger() error {
	stdout := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(c.cfg.Log.JSON),
		logger.WithService("compass", utils.CurrentBuild().Version),
	)

	if c.cfg.Log.File == "" {
		c.logger = stdout
		return nil
	}

	f, err := os.OpenFile(c.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	c.closers = append(c.closers, f.Close)

	c.logger = logger.Multi(stdout, logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithService("compass", utils.CurrentBuild().Version),
		logger.WithWriter(f),
	))
	return nil
}

func (c *serveCommander) close() {
	for _, fn := range c.closers {
		_ = fn()
	}
}
