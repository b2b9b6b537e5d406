package cli

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/adapter"
	"github.com/tripweaver/tripweaver/pkg/agent"
	"github.com/tripweaver/tripweaver/pkg/repository"
	"github.com/tripweaver/tripweaver/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	logLevel string
	demo     bool

	// Gemini
	geminiAPIKey   string
	geminiProject  string
	geminiLocation string
	geminiModel    string

	// Session backend
	backend           string
	sqlitePath        string
	firestoreProject  string
	firestoreDatabase string
	sessionTimeout    time.Duration

	personaPath string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("TRIPWEAVER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.BoolFlag{
			Name:        "demo",
			Usage:       "Run with deterministic built-in responses, no model access",
			Sources:     cli.EnvVars("TRIPWEAVER_DEMO"),
			Destination: &cfg.demo,
		},
		&cli.StringFlag{
			Name:        "personas",
			Usage:       "Path to a YAML file overriding agent personas",
			Sources:     cli.EnvVars("TRIPWEAVER_PERSONAS"),
			Destination: &cfg.personaPath,
		},
	}
}

// llmFlags returns flags for model-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Vertex AI",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Vertex AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// sessionFlags returns flags selecting and tuning the session backend
func sessionFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-backend",
			Usage:       "Session backend (memory, sqlite, firestore)",
			Value:       "memory",
			Sources:     cli.EnvVars("TRIPWEAVER_SESSION_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "Path to the SQLite session database",
			Value:       "tripweaver.db",
			Sources:     cli.EnvVars("TRIPWEAVER_SQLITE_PATH"),
			Destination: &cfg.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project ID for Firestore",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.firestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.firestoreDatabase,
		},
		&cli.DurationFlag{
			Name:        "session-timeout",
			Usage:       "Idle time after which a session is discarded",
			Value:       repository.DefaultSessionTimeout,
			Sources:     cli.EnvVars("TRIPWEAVER_SESSION_TIMEOUT"),
			Destination: &cfg.sessionTimeout,
		},
	}
}

// setupLogging configures the process logger and attaches it to the context
func (cfg *config) setupLogging(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newGateway creates the model gateway, or nil in demo mode
func (cfg *config) newGateway(ctx context.Context) (adapter.Gateway, error) {
	if cfg.demo {
		return nil, nil
	}
	if cfg.geminiAPIKey == "" && cfg.geminiProject == "" {
		return nil, goerr.New("gemini-api-key or gemini-project is required (or use --demo)")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithModel(cfg.geminiModel))
	}

	gw, err := adapter.NewGemini(ctx, cfg.geminiAPIKey, cfg.geminiProject, cfg.geminiLocation, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini gateway")
	}
	return gw, nil
}

// newRepository creates the session backend selected by --session-backend
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	switch cfg.backend {
	case "memory":
		return repository.NewMemory(), nil

	case "sqlite":
		repo, err := repository.NewSQLite(cfg.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create sqlite repository")
		}
		return repo, nil

	case "firestore":
		if cfg.firestoreProject == "" {
			return nil, goerr.New("firestore-project is required for the firestore backend")
		}
		repo, err := repository.NewFirestore(ctx, cfg.firestoreProject, cfg.firestoreDatabase)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create firestore repository")
		}
		return repo, nil

	default:
		return nil, goerr.New("unknown session backend", goerr.V("backend", cfg.backend))
	}
}

// newStore wraps the selected backend with expiry and locking
func (cfg *config) newStore(ctx context.Context) (*repository.Store, repository.Repository, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewStore(repo, repository.WithTimeout(cfg.sessionTimeout)), repo, nil
}

// newPersonas loads the persona set, applying the override file if given
func (cfg *config) newPersonas() (agent.Personas, error) {
	if cfg.personaPath == "" {
		return agent.DefaultPersonas(), nil
	}
	return agent.LoadPersonas(cfg.personaPath)
}

// newRegistry builds all four agents and registers them under their
// canonical names
func (cfg *config) newRegistry(ctx context.Context) (*agent.Registry, error) {
	gw, err := cfg.newGateway(ctx)
	if err != nil {
		return nil, err
	}

	personas, err := cfg.newPersonas()
	if err != nil {
		return nil, err
	}

	opts := func(role agent.Role) []agent.Option {
		out := []agent.Option{agent.WithPersona(personas[role])}
		if cfg.demo {
			out = append(out, agent.InDemoMode())
		}
		return out
	}

	registry := agent.NewRegistry()

	preference, err := agent.NewPreferenceAgent(gw, opts(agent.RolePreference)...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(agent.NamePreference, preference); err != nil {
		return nil, err
	}

	search, err := agent.NewSearchAgent(gw, opts(agent.RoleSearch)...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(agent.NameSearch, search); err != nil {
		return nil, err
	}

	itinerary, err := agent.NewItineraryAgent(gw, opts(agent.RoleItinerary)...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(agent.NameItinerary, itinerary); err != nil {
		return nil, err
	}

	supportAgent, err := agent.NewSupportAgent(gw, opts(agent.RoleSupport)...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(agent.NameSupport, supportAgent); err != nil {
		return nil, err
	}

	return registry, nil
}
