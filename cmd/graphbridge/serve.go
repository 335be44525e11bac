package main

import (
	"log/slog"
	"os"

	"github.com/graphbridge/graphbridge/gateway"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	var (
		store      storeFlags
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the MCP stream, so logs go to stderr
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

			config := store.config()

			if configPath != "" {
				if fileConfig, err := gateway.ReadConfig(configPath); err != nil {
					return err
				} else {
					config = fileConfig
				}
			}

			db, err := openStore(cmd.Context(), config)

			if err != nil {
				reportConnectionError(err)
				return err
			}

			defer db.Close(cmd.Context())

			slog.Info("serving MCP over stdio", "uri", config.URI)
			return gateway.NewServer(db).ServeStdio()
		},
	}

	store.register(cmd)
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file (overrides connection flags)")

	return cmd
}
