package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/repository/firestore"
	"github.com/vesperants/najir-agent/pkg/repository/memory"
	"github.com/vesperants/najir-agent/pkg/repository/sessionfile"
	"github.com/vesperants/najir-agent/pkg/utils/logging"
)

// Session holds CLI flags for the session cache backend
type Session struct {
	backend          string
	filePath         string
	projectID        string
	collectionPrefix string
}

// Flags returns CLI flags for session cache configuration
func (s *Session) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-backend",
			Usage:       "Session cache backend (file, firestore or memory)",
			Value:       "file",
			Sources:     cli.EnvVars("NAJIR_SESSION_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "session-file",
			Usage:       "Path of the session cache file (file backend)",
			Value:       "session_map.json",
			Sources:     cli.EnvVars("NAJIR_SESSION_FILE"),
			Destination: &s.filePath,
		},
		&cli.StringFlag{
			Name:        "session-firestore-project-id",
			Usage:       "Firestore project ID (firestore backend)",
			Sources:     cli.EnvVars("NAJIR_SESSION_FIRESTORE_PROJECT_ID"),
			Destination: &s.projectID,
		},
		&cli.StringFlag{
			Name:        "session-firestore-prefix",
			Usage:       "Firestore collection prefix (firestore backend)",
			Sources:     cli.EnvVars("NAJIR_SESSION_FIRESTORE_PREFIX"),
			Destination: &s.collectionPrefix,
		},
	}
}

// FilePath returns the configured session file path
func (s *Session) FilePath() string {
	return s.filePath
}

// Configure initializes the session repository for the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (s *Session) Configure(ctx context.Context) (interfaces.SessionRepository, error) {
	switch s.backend {
	case "file":
		logging.Default().Info("Using file session cache", "path", s.filePath)
		return sessionfile.New(s.filePath), nil

	case "firestore":
		if s.projectID == "" {
			return nil, goerr.New("session-firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, s.projectID, firestore.WithCollectionPrefix(s.collectionPrefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore session cache")
		}
		logging.Default().Info("Using Firestore session cache",
			"project_id", s.projectID,
			"collection_prefix", s.collectionPrefix,
		)
		return repo, nil

	case "memory":
		logging.Default().Info("Using in-memory session cache (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid session backend", goerr.V("backend", s.backend))
	}
}
