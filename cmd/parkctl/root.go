package main

import (
	"fmt"

	appctx "github.com/bassista/go_park/internal/app"
	"github.com/bassista/go_park/internal/config"
	"github.com/bassista/go_park/internal/logger"
	"github.com/bassista/go_park/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// globalFlags override the matching configuration keys for one invocation.
type globalFlags struct {
	backend   string
	file      string
	sqlite    string
	ephemeral bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "parkctl",
		Short: "Inspect and drive the parking lot simulation",
		Long: `parkctl works on the same store as the dashboard server.

Available commands:
  show    - Draw the lot grid with its counters
  stats   - Print lot and city counters
  reserve - Reserve a free spot or cancel a reservation
  tick    - Run traffic simulator steps
  cities  - List the city aggregates`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				logger.Logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.backend, "backend", "", "store backend: file, sqlite or memory (default from config)")
	pf.StringVar(&flags.file, "file", "", "data file for the file backend")
	pf.StringVar(&flags.sqlite, "sqlite", "", "database path for the sqlite backend")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "use an in-memory store that is dropped on exit")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newShowCmd(flags),
		newStatsCmd(flags),
		newReserveCmd(flags),
		newTickCmd(flags),
		newCitiesCmd(flags),
	)
	return root
}

// openSession builds a session on the configured store without starting the
// periodic tasks. Callers must Stop it to close the store.
func openSession(flags *globalFlags) (*appctx.Session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flags.backend != "" {
		cfg.Data.Backend = flags.backend
	}
	if flags.file != "" {
		cfg.Data.FilePath = flags.file
	}
	if flags.sqlite != "" {
		cfg.Data.SQLitePath = flags.sqlite
	}
	if flags.ephemeral {
		cfg.Data.Backend = config.BackendMemory
	}

	store, err := repository.NewKVStoreFromConfig(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s, err := appctx.New(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return s, nil
}

// withSession opens a session, runs fn and always closes the store.
func withSession(flags *globalFlags, fn func(s *appctx.Session) error) (err error) {
	s, err := openSession(flags)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Stop(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
