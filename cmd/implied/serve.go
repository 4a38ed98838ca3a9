package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stateworks/go-implied/internal/server"
	"github.com/stateworks/go-implied/internal/store"
)

// serveConfig is the optional YAML config file for the serve command. Flags
// override anything set here.
type serveConfig struct {
	Addr    string `yaml:"addr"`
	Root    string `yaml:"root"`
	SpecDir string `yaml:"specDir"`
}

var (
	serveAddr    string
	serveRoot    string
	serveSpecDir string
	serveCfgPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the implication editor REST API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := serveConfig{Addr: ":3001", Root: "."}
		if serveCfgPath != "" {
			data, err := os.ReadFile(serveCfgPath)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("parse config: %w", err)
			}
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("root") {
			cfg.Root = serveRoot
		}
		if cmd.Flags().Changed("spec-dir") {
			cfg.SpecDir = serveSpecDir
		}
		if cfg.SpecDir == "" {
			cfg.SpecDir = cfg.Root
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := store.Open(cfg.Root, store.WithLogger(log), store.WithWatcher())
		if err != nil {
			return err
		}
		defer s.Close()

		srv, err := server.New(server.Config{
			Addr:    cfg.Addr,
			Store:   s,
			SpecDir: cfg.SpecDir,
			Logger:  log,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3001", "listen address")
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "directory holding implication JSON files")
	serveCmd.Flags().StringVar(&serveSpecDir, "spec-dir", "", "directory holding UI spec files (defaults to root)")
	serveCmd.Flags().StringVarP(&serveCfgPath, "config", "c", "", "YAML config file")
}
