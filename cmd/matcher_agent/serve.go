package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/server"
	"github.com/jonathan/resume-matcher/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the matching HTTP API server",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	port := servePort
	if port <= 0 {
		port = rt.cfg.Port
	}

	srv := server.New(server.Config{
		Port:     port,
		Strategy: rt.cfg.Strategy,
		TopN:     rt.cfg.TopN,
	}, rt.deps, storage.NewMemory(), rt.log)

	rt.log.Info().Int("port", port).Msg("starting server")
	if err := srv.Start(ctx); err != nil {
		return err
	}
	rt.persist()
	return nil
}
