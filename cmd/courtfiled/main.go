package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/camachodev/courtfile/internal/httpapi"
)

const (
	flagListenAddr     = "listen-addr"
	flagDataDir        = "data-dir"
	flagAllowedOrigins = "allowed-origins"
	envPrefix          = "COURTFILE"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "courtfiled: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := httpapi.Config{}
	cmd := &cobra.Command{
		Use:           "courtfiled",
		Short:         "HTTP server for court reservations and seller products over CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return httpapi.Run(ctx, cfg)
		},
	}

	cmd.Flags().String(flagListenAddr, ":8000", "HTTP listen address")
	cmd.Flags().String(flagDataDir, "./data", "directory holding the CSV data files")
	cmd.Flags().String(flagAllowedOrigins, "*", "comma-separated list of allowed CORS origins")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *httpapi.Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, flagName := range []string{flagListenAddr, flagDataDir, flagAllowedOrigins} {
		if err := v.BindPFlag(flagName, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	cfg.ListenAddr = strings.TrimSpace(v.GetString(flagListenAddr))
	cfg.DataDir = strings.TrimSpace(v.GetString(flagDataDir))
	cfg.AllowedOrigins = httpapi.ParseAllowedOrigins(v.GetString(flagAllowedOrigins))

	return cfg.Validate()
}
