package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"github.com/vesperants/najir-agent/pkg/usecase"
)

// Router holds CLI flags for intent routing keyword configuration
type Router struct {
	keywordsPath string
}

// Flags returns CLI flags for router configuration
func (r *Router) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "router-keywords",
			Usage:       "TOML file overriding the routing keyword vocabularies",
			Sources:     cli.EnvVars("NAJIR_ROUTER_KEYWORDS"),
			Destination: &r.keywordsPath,
		},
	}
}

// Configure loads the keyword vocabularies. Returns nil when no file is
// configured, which selects the built-in defaults.
func (r *Router) Configure() (*usecase.RouterConfig, error) {
	if r.keywordsPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.keywordsPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read router keywords file", goerr.V("path", r.keywordsPath))
	}

	cfg := usecase.DefaultRouterConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse router keywords file", goerr.V("path", r.keywordsPath))
	}
	return cfg, nil
}
