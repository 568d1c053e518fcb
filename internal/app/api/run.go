// Package api wires the HTTP order service: Postgres, the change feed
// exchange, and the request surface the staff clients talk to.
package api

import (
	"context"
	"fmt"

	"comandero/internal/auth"
	"comandero/internal/catalog"
	"comandero/internal/config"
	"comandero/internal/connections/database"
	"comandero/internal/connections/rabbitmq"
	"comandero/internal/httpapi"
	"comandero/internal/logger"
	"comandero/internal/orders"
)

func Run(ctx context.Context, cfg config.Config, port int) error {
	lg := logger.New("api-server")

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	mq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer mq.Close()
	if err := mq.DeclareTopology(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}

	orderSvc := orders.NewService(orders.NewRepository(db), orders.NewFeedPublisher(mq), lg)
	catalogSvc := catalog.NewService(catalog.NewRepository(db), lg)
	authSvc := auth.NewService(auth.NewRepository(db), cfg.Auth, lg)

	// Warm the catalog so product search works from the first request.
	if err := catalogSvc.Refresh(ctx); err != nil {
		lg.Error("catalog_warmup_failed", err, nil)
	}

	lg.Info("service_started", map[string]any{"port": port})
	return httpapi.New(port, orderSvc, catalogSvc, authSvc, lg).Run(ctx)
}
