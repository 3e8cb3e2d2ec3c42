package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	synthesize "github.com/walteh/tplcheck/cmd/tplcheck/synthesize"
	tcbdebug "github.com/walteh/tplcheck/pkg/debug"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "tplcheck",
		Short: "A tool for type checking component templates",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(synthesize.NewSynthesizeCommand())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Logger().
		Hook(tcbdebug.TimeHook{WithColor: true}).
		Hook(tcbdebug.CallerHook{WithColor: true})
	ctx := logger.WithContext(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
