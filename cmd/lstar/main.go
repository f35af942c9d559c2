// Command lstar learns a deterministic Mealy machine from a Minimally
// Adequate Teacher using Angluin's L* algorithm.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

func main() {
	root := &cobra.Command{
		Use:   "lstar",
		Short: "Active learning of deterministic Mealy machines",
		Long: `lstar learns a deterministic Mealy machine from a Minimally Adequate
Teacher using Angluin's L* algorithm, either against a built-in scenario
or a TCP-speaking target, and renders or generates Go code from a
previously learned machine loaded from disk.`,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newLearnCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newCodegenCmd())
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLogger(level string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
