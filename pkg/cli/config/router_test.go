package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
	"github.com/vesperants/najir-agent/pkg/cli/config"
)

func configureRouter(t *testing.T, args []string) (*config.Router, error) {
	t.Helper()

	var routerCfg config.Router
	var configureErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: routerCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}
	configureErr = cmd.Run(context.Background(), append([]string{"test"}, args...))
	return &routerCfg, configureErr
}

func TestRouterConfig(t *testing.T) {
	t.Run("no file selects defaults", func(t *testing.T) {
		routerCfg, err := configureRouter(t, nil)
		gt.NoError(t, err).Required()

		cfg, err := routerCfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg).Nil()
	})

	t.Run("TOML file overrides vocabularies", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keywords.toml")
		doc := `
search = ["lookup precedent"]
greeting = ["namaskar"]
`
		gt.NoError(t, os.WriteFile(path, []byte(doc), 0600)).Required()

		routerCfg, err := configureRouter(t, []string{"--router-keywords", path})
		gt.NoError(t, err).Required()

		cfg, err := routerCfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg).NotNil().Required()
		gt.Array(t, cfg.SearchKeywords).Length(1)
		gt.Value(t, cfg.SearchKeywords[0]).Equal("lookup precedent")
		gt.Array(t, cfg.GreetingKeywords).Length(1)

		// untouched sets keep their defaults
		gt.Value(t, len(cfg.FarewellKeywords) > 0).Equal(true)
	})

	t.Run("missing file fails", func(t *testing.T) {
		routerCfg, err := configureRouter(t, []string{"--router-keywords", "/does/not/exist.toml"})
		gt.NoError(t, err).Required()

		_, err = routerCfg.Configure()
		gt.Error(t, err)
	})
}
