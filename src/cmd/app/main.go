package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"modserve/src/internal/config"
	"modserve/src/internal/domain"
	"modserve/src/internal/service"
)

var Version = "1.0.0"

type Flags struct {
	Host         string
	Port         string
	Root         string
	NoLiveReload bool
	Verbose      bool
}

func main() {
	f := new(Flags)

	command := &cobra.Command{
		Use:   "modserve [root]",
		Short: "local static file server with CORS headers for ES modules",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			run(f, args)
		},
	}

	command.Flags().StringVarP(&f.Host, "host", "H", "", "Bind address. Defaults to all interfaces.")
	command.Flags().StringVarP(&f.Port, "port", "p", "", "Port to listen on.")
	command.Flags().StringVarP(&f.Root, "root", "r", "", "Directory to serve. Defaults to the working directory.")
	command.Flags().BoolVar(&f.NoLiveReload, "no-livereload", false, "Disable the live reload endpoint and file watcher.")
	command.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose mode.")

	if err := command.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(f *Flags, args []string) {
	if f.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load(Version)
	cfg.Verbose = f.Verbose
	if f.Host != "" {
		cfg.Host = f.Host
	}
	if f.Port != "" {
		cfg.Port = f.Port
	}
	if f.Root != "" {
		cfg.Root = f.Root
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	if f.NoLiveReload {
		cfg.LiveReload = false
	}

	root, err := config.ResolveRoot(cfg.Root)
	if err != nil {
		logrus.Fatal(err)
	}
	cfg.Root = root

	ctx := &domain.Context{Config: cfg}

	orchestrator := service.CreateOrchestrator(ctx)
	if err := orchestrator.Run(); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}
