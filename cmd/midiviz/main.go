// Command midiviz plays and exports note visualizations.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbegin/midiviz-go/internal/failure"
)

type app struct {
	configPath string
	logLevel   string
	cfg        *Config
	log        *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New(), cfg: DefaultConfig()}
	root := &cobra.Command{
		Use:           "midiviz",
		Short:         "Piano roll and falling-note visualizer synced to audio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+defaultConfigPath+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug|info|warn|error")

	root.AddCommand(
		a.playCmd(),
		a.snapshotCmd(),
		a.framesCmd(),
		a.audioCmd(),
		a.notesCmd(),
	)
	return root
}

func (a *app) setup() error {
	level, err := logrus.ParseLevel(strings.TrimSpace(a.logLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q (expected debug|info|warn|error)", a.logLevel)
	}
	a.log.SetLevel(level)
	a.log.SetOutput(os.Stderr)

	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "midiviz:", failure.Message(err))
		os.Exit(1)
	}
}
