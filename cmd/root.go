/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/madmaxieee/cardtext/internal/config"
	"github.com/madmaxieee/cardtext/internal/logging"
	"github.com/madmaxieee/cardtext/internal/proto"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var flags proto.Flags

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cardtext",
	Short: "Rewrite Cards Against Humanity decks into text messages with an LLM",
	Long: `cardtext turns the black (prompt) and white (response) cards of a
Cards Against Humanity dataset into realistic text messages using a large
language model, and ships a few helpers to look at the dataset and estimate
what a run will cost.

The API key is read from the environment; a .env file in the working
directory is loaded first. Example:

  cardtext convert --estimate-only
  cardtext convert --black-limit 20 --white-limit 40`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFilePath, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/cardtext/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", logging.DefaultFile, "file to append logs to, empty to disable")
	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "do not show progress")
}

func newLogger(console io.Writer) (zerolog.Logger, func() error, error) {
	level := "info"
	if flags.Debug {
		level = "debug"
	}
	return logging.New(logging.Options{
		Level:   level,
		File:    flags.LogFile,
		Console: console,
	})
}
