package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"comandero/internal/app/api"
	"comandero/internal/app/station"
	"comandero/internal/config"
	"comandero/internal/domain"
	"comandero/internal/logger"
)

func main() {
	mode := flag.String("mode", "", "api-server | station")
	port := flag.Int("port", 3000, "api-server: http port")
	staffName := flag.String("staff-name", "", "station: staff member's display name")
	role := flag.String("role", "", "station: waiter | cook | barman")
	watchOrder := flag.String("order-id", "", "station: watch a single order instead of the list")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	switch *mode {
	case "api-server":
		lg.Info("service_started", map[string]any{"service": "api-server", "port": *port})
		if err := api.Run(ctx, cfg, *port); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "station":
		if *staffName == "" {
			fmt.Fprintln(os.Stderr, "--staff-name is required for station")
			os.Exit(2)
		}
		parsedRole, err := domain.ParseRole(*role)
		if err != nil {
			fmt.Fprintln(os.Stderr, "--role must be waiter, cook or barman")
			os.Exit(2)
		}
		opts := station.Options{StaffName: *staffName, Role: parsedRole}
		if *watchOrder != "" {
			id, err := uuid.Parse(*watchOrder)
			if err != nil {
				fmt.Fprintln(os.Stderr, "--order-id must be a valid uuid")
				os.Exit(2)
			}
			opts.WatchOrder = id
		}
		lg.Info("service_started", map[string]any{"service": "station", "staff": *staffName, "role": *role})
		if err := station.Run(ctx, cfg, opts); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api-server | station")
		os.Exit(2)
	}
}
