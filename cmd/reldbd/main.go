package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/chahine-tech/reldb/internal/codec"
	"github.com/chahine-tech/reldb/internal/config"
	"github.com/chahine-tech/reldb/internal/logging"
	"github.com/chahine-tech/reldb/internal/persistence"
	"github.com/chahine-tech/reldb/internal/server"
)

const banner = `
 ██████╗ ███████╗██╗     ██████╗ ██████╗
 ██╔══██╗██╔════╝██║     ██╔══██╗██╔══██╗
 ██████╔╝█████╗  ██║     ██║  ██║██████╔╝
 ██╔══██╗██╔══╝  ██║     ██║  ██║██╔══██╗
 ██║  ██║███████╗███████╗██████╔╝██████╔╝
 ╚═╝  ╚═╝╚══════╝╚══════╝╚═════╝ ╚═════╝

 reldbd — a small relational database server
`

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file path (YAML)")
		listenAddr = flag.String("listen", "", "Override the configured listen address")
		root       = flag.String("root", "", "Override the configured persistence root directory")
		showHelp   = flag.Bool("help", false, "Show this help")
	)
	flag.Parse()

	if *showHelp {
		fmt.Print(banner)
		showUsage()
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Printf("Warning: could not load config: %v\n", err)
		cfg = config.Default()
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *root != "" {
		cfg.Root = *root
	}

	log := logging.New(cfg.LogLevel)
	log.WithField("listen_addr", cfg.ListenAddr).WithField("root", cfg.Root).Info("starting reldbd")
	codec.SetLogger(log)

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.WithError(err).Fatal("failed to bind listener")
	}

	backend := persistence.NewFSBackend(cfg.Root)
	srv := server.New(backend, cfg.SupportedVersions, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx, ln); err != nil {
		log.WithError(err).Error("server stopped with error")
		os.Exit(1)
	}
	log.Info("reldbd stopped")
}

func showUsage() {
	fmt.Println("reldbd - a small relational database server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  reldbd -config reldbd.yaml")
	fmt.Println("  reldbd -listen 0.0.0.0:5432 -root /var/lib/reldb")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config FILE   Configuration file path (YAML)")
	fmt.Println("  -listen ADDR   Override the configured listen address")
	fmt.Println("  -root DIR      Override the configured persistence root directory")
	fmt.Println("  -help          Show this help")
}
