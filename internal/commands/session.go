package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/diogo/codeassist/internal/chat"
	"github.com/diogo/codeassist/internal/config"
	"github.com/diogo/codeassist/internal/llm"
	"github.com/diogo/codeassist/internal/logging"
	"github.com/diogo/codeassist/internal/telemetry"
)

// session is everything a command needs to run conversations
type session struct {
	cfg       config.Config
	logger    *slog.Logger
	ctrl      *chat.Controller
	completer *recordingCompleter

	closers []func(context.Context) error
}

// recordingCompleter keeps the outcome of the latest call. The controller
// turns failures into transcript text, so this is how callers learn about
// them.
type recordingCompleter struct {
	chat.Completer
	lastErr error
}

func (r *recordingCompleter) Complete(ctx context.Context, language, userMessage string) (string, error) {
	reply, err := r.Completer.Complete(ctx, language, userMessage)
	r.lastErr = err
	return reply, err
}

// newSession loads the config, applies flag overrides and wires logging,
// telemetry, the completion client and the controller.
func newSession(ctx context.Context, deps *Dependencies, global *globalOptions, language string) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if global.model != "" {
		cfg.Model = global.model
	}
	if global.debug {
		cfg.LogLevel = "debug"
	}

	s := &session{cfg: cfg}

	logDir, err := config.GetLogDir()
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(logging.Options{Dir: logDir, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: logging disabled: %v\n", err)
		logger = logging.Discard()
	} else {
		s.closers = append(s.closers, closeFunc(closer))
	}
	s.logger = logger

	prov, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.Telemetry,
		Dir:            logDir,
		ServiceVersion: Version,
	})
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
		prov = telemetry.Noop()
	}
	// providers flush before the log file closes
	s.closers = append([]func(context.Context) error{prov.Shutdown}, s.closers...)

	completer := deps.Completer
	if completer == nil {
		client, err := llm.NewClient(cfg,
			llm.WithLogger(logger),
			llm.WithTracer(prov.Tracer),
			llm.WithMeter(prov.Meter),
		)
		if err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		completer = client
	}
	s.completer = &recordingCompleter{Completer: completer}

	if language == "" {
		language = cfg.DefaultLanguage
	}

	opts := []chat.Option{
		chat.WithLanguage(config.NormalizeLanguage(language)),
		chat.WithLogger(logger),
	}
	if deps.Clipboard != nil {
		opts = append(opts, chat.WithClipboard(deps.Clipboard))
	}
	s.ctrl = chat.NewController(s.completer, opts...)

	logger.Debug("session started",
		"model", cfg.Model,
		"language", s.ctrl.Language(),
		"telemetry", cfg.Telemetry,
	)
	return s, nil
}

// Close shuts down telemetry and the log file
func (s *session) Close(ctx context.Context) {
	for _, fn := range s.closers {
		_ = fn(ctx)
	}
}

func closeFunc(c io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}
