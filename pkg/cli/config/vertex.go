package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vesperants/najir-agent/pkg/service/vertex"
)

// Vertex holds configuration for the external session backend
type Vertex struct {
	projectID string
	location  string
	appName   string
}

// Flags returns CLI flags for the session backend
func (v *Vertex) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vertex-project",
			Usage:       "Google Cloud project ID for the session backend",
			Sources:     cli.EnvVars("NAJIR_VERTEX_PROJECT"),
			Destination: &v.projectID,
		},
		&cli.StringFlag{
			Name:        "vertex-location",
			Usage:       "Location of the session backend",
			Value:       "us-central1",
			Sources:     cli.EnvVars("NAJIR_VERTEX_LOCATION"),
			Destination: &v.location,
		},
		&cli.StringFlag{
			Name:        "vertex-app-name",
			Usage:       "Reasoning engine application name owning sessions",
			Sources:     cli.EnvVars("NAJIR_VERTEX_APP_NAME"),
			Destination: &v.appName,
		},
	}
}

// LogAttrs returns log attributes for the session backend configuration
func (v *Vertex) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", v.projectID),
		slog.String("location", v.location),
		slog.String("app_name", v.appName),
	}
}

// Configure creates the session backend client. All fields are required;
// absence is a startup failure, not a per-request one.
func (v *Vertex) Configure(ctx context.Context) (*vertex.Client, error) {
	if v.projectID == "" || v.appName == "" {
		return nil, goerr.New("vertex-project and vertex-app-name are required",
			goerr.V("project_id", v.projectID),
			goerr.V("app_name", v.appName),
		)
	}

	client, err := vertex.New(ctx, v.projectID, v.location, v.appName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session backend client")
	}
	return client, nil
}
