package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

// cmdMigrate upgrades a legacy session cache file to the canonical shape.
// The serve path performs the same upgrade lazily on first access; this
// command does it eagerly for a whole file.
func cmdMigrate() *cli.Command {
	var path string
	var dryRun bool

	return &cli.Command{
		Name:  "migrate",
		Usage: "Upgrade a legacy session cache file in place",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "session-file",
				Usage:       "Path of the session cache file",
				Value:       "session_map.json",
				Sources:     cli.EnvVars("NAJIR_SESSION_FILE"),
				Destination: &path,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Report what would change without writing",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return goerr.Wrap(err, "failed to read session file", goerr.V("path", path))
			}

			file, changed, err := model.DecodeSessionFile(data, "", "")
			if err != nil {
				return goerr.Wrap(err, "failed to decode session file", goerr.V("path", path))
			}

			logger := logging.Default()
			if !changed {
				logger.Info("session file already in canonical shape", "path", path)
				return nil
			}

			if dryRun {
				logger.Info("legacy shapes found, not writing (dry run)",
					"path", path,
					"users", len(file),
				)
				return nil
			}

			out, err := json.MarshalIndent(file, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to encode session file")
			}
			if err := os.WriteFile(path, out, 0600); err != nil {
				return goerr.Wrap(err, "failed to write session file", goerr.V("path", path))
			}

			logger.Info("session file upgraded", "path", path, "users", len(file))
			return nil
		},
	}
}
