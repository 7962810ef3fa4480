package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vesperants/najir-agent/pkg/service/discovery"
)

// Discovery holds configuration for the case search backend
type Discovery struct {
	projectID   string
	location    string
	engineID    string
	dataStoreID string
}

// Flags returns CLI flags for the case search backend
func (d *Discovery) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "search-project",
			Usage:       "Google Cloud project ID for case search",
			Sources:     cli.EnvVars("NAJIR_SEARCH_PROJECT"),
			Destination: &d.projectID,
		},
		&cli.StringFlag{
			Name:        "search-location",
			Usage:       "Location of the case search engine",
			Value:       "global",
			Sources:     cli.EnvVars("NAJIR_SEARCH_LOCATION"),
			Destination: &d.location,
		},
		&cli.StringFlag{
			Name:        "search-engine-id",
			Usage:       "Search engine ID used for case title lookups",
			Sources:     cli.EnvVars("NAJIR_SEARCH_ENGINE_ID"),
			Destination: &d.engineID,
		},
		&cli.StringFlag{
			Name:        "search-datastore-id",
			Usage:       "Data store ID used for free-text case search",
			Sources:     cli.EnvVars("NAJIR_SEARCH_DATASTORE_ID"),
			Destination: &d.dataStoreID,
		},
	}
}

// LogAttrs returns log attributes for the search configuration
func (d *Discovery) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", d.projectID),
		slog.String("location", d.location),
		slog.String("engine_id", d.engineID),
		slog.String("datastore_id", d.dataStoreID),
	}
}

// Configure creates the case search client. All fields are required; the
// process must not serve traffic without a search backend.
func (d *Discovery) Configure(ctx context.Context) (*discovery.Client, error) {
	if d.projectID == "" || d.engineID == "" || d.dataStoreID == "" {
		return nil, goerr.New("search-project, search-engine-id and search-datastore-id are required",
			goerr.V("project_id", d.projectID),
			goerr.V("engine_id", d.engineID),
			goerr.V("datastore_id", d.dataStoreID),
		)
	}

	client, err := discovery.New(ctx, d.projectID, d.location, d.engineID, d.dataStoreID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case search client")
	}
	return client, nil
}
