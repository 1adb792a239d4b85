package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/settings"
)

var knownKeys = []string{settings.KeyProjectName, settings.KeyGyazoToken}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write the shared settings store",
		Long: `The store holds ProjectName, the Scrapbox project pages are created in, and
GyazoToken, the access token used for photo uploads.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := settings.Open(a.cfg.Share.ResolveStorePath())
				if err != nil {
					return err
				}
				v, ok := store.Get(args[0])
				if !ok {
					return &exitError{code: 1, err: fmt.Errorf("%s is not set", args[0])}
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Store a value; an empty value removes the key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := settings.Open(a.cfg.Share.ResolveStorePath())
				if err != nil {
					return err
				}
				key, value := args[0], strings.TrimSpace(args[1])
				if !isKnownKey(key) {
					a.logger.Warn("setting an unknown key", zap.String("key", key))
				}
				if value == "" {
					store.Delete(key)
				} else {
					store.Set(key, value)
				}
				if err := store.Save(); err != nil {
					return err
				}
				a.logger.Info("settings saved", zap.String("path", store.Path()), zap.String("key", key))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print all values, with the token masked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := settings.Open(a.cfg.Share.ResolveStorePath())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", store.Path())
				for _, key := range store.Keys() {
					v, _ := store.Get(key)
					if key == settings.KeyGyazoToken {
						v = mask(v)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, v)
				}
				return nil
			},
		},
	)
	return cmd
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// mask keeps the last four characters of a secret.
func mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}
