package main

import (
	"github.com/spf13/cobra"

	"personagen/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP generation API",
	Long: `Starts the HTTP server exposing GET /generate, /health, and /info.

Example:
  personagen serve --addr :8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		return server.New(cfg, logger).Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}
