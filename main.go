package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/joshuarp/passhash/internal/app"
	sharedhash "github.com/joshuarp/passhash/internal/shared/hash"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "passhash",
		Short:         "Create and check algorithm-tagged password hashes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: config.yaml, .env, then their .example variants)")

	root.AddCommand(
		&cobra.Command{
			Use:   "encode <secret>",
			Short: "Hash a secret with the configured default algorithm",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				encoder, err := loadEncoder(configPath)
				if err != nil {
					return err
				}
				stored, err := encoder.Hash(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), stored)
				return nil
			},
		},
		&cobra.Command{
			Use:   "matches <secret> <stored>",
			Short: "Check a secret against a stored {id}hash value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				encoder, err := loadEncoder(configPath)
				if err != nil {
					return err
				}
				ok, err := encoder.Verify(cmd.Context(), args[1], args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ok)
				return nil
			},
		},
		&cobra.Command{
			Use:   "upgrade <stored>",
			Short: "Report whether a stored value should be re-encoded",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				encoder, err := loadEncoder(configPath)
				if err != nil {
					return err
				}
				needs, err := encoder.NeedsUpgrade(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), needs)
				return nil
			},
		},
		&cobra.Command{
			Use:   "algorithms",
			Short: "List registered algorithm ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				encoder, err := loadEncoder(configPath)
				if err != nil {
					return err
				}
				current := encoder.Load()
				for _, id := range current.Registry().Strategies() {
					marker := " "
					if id == current.DefaultStrategy() {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Keep the encoder in sync with the config file and serve metrics",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				application := app.New(configPath, app.WatchModule())
				if err := application.Err(); err != nil {
					return err
				}
				application.Run()
				return nil
			},
		},
	)

	return root
}

func loadEncoder(configPath string) (*sharedhash.Swappable, error) {
	var encoder *sharedhash.Swappable
	application := app.New(configPath, fx.Populate(&encoder))
	if err := application.Err(); err != nil {
		return nil, err
	}
	return encoder, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
