package main

import (
	"encoding/json"
	"fmt"
	"io"

	"SmallCapLab/pkg/config"
	applogger "SmallCapLab/pkg/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "lab",
		Short:         "SmallCap Lab screening and sizing tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.yaml", "config file path (optional)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newScreenCmd(opts))
	root.AddCommand(newSizeCmd(opts))
	return root
}

// loadConfig reads the config file when present and applies the environment.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.LoadWithEnv(o.configPath)
}

func (o *rootOptions) logger(cfg *config.Config) *applogger.Logger {
	if !o.verbose {
		return applogger.NewNop()
	}
	l, err := applogger.New(&applogger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		return applogger.NewNop()
	}
	return l
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
