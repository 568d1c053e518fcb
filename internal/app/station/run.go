// Package station runs one staff device: a synced working set of active
// orders, a change-feed subscription, and role-routed notifications.
package station

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"comandero/internal/config"
	"comandero/internal/connections/database"
	"comandero/internal/connections/rabbitmq"
	"comandero/internal/domain"
	"comandero/internal/logger"
	"comandero/internal/notify"
	"comandero/internal/orders"
	"comandero/internal/router"
	"comandero/internal/sync"
)

type Options struct {
	StaffName string
	Role      domain.Role
	// WatchOrder narrows the feed to one order (the detail view).
	WatchOrder uuid.UUID
}

func Run(ctx context.Context, cfg config.Config, opts Options) error {
	lg := logger.New("station")

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

	svc := orders.NewService(orders.NewRepository(db), orders.NewFeedPublisher(mq), lg)
	notifier := notify.NewSoundNotifier(opts.Role, lg)

	if opts.WatchOrder != uuid.Nil {
		rt := router.NewDetail(mq, notifier, lg, opts.WatchOrder, func(o domain.Order) {
			lg.Info("order_row_applied", map[string]any{
				"order_id": o.ID.String(),
				"status":   string(domain.Classify(o)),
				"total":    o.Total().String(),
			})
		})
		return rt.Run(ctx, opts.StaffName)
	}

	store := sync.NewStore(svc, lg)
	store.SetTab(opts.Role.DefaultTab())
	if err := store.Refresh(ctx); err != nil {
		// Start stale; the first feed event or manual refresh recovers.
		lg.Error("initial_fetch_failed", err, nil)
	}
	logWorkingSet(lg, store, opts.Role)

	rt := router.New(mq, store, notifier, lg)
	lg.Info("service_started", map[string]any{
		"staff": opts.StaffName,
		"role":  string(opts.Role),
		"tab":   string(store.Tab()),
	})
	return rt.Run(ctx, opts.StaffName)
}

func logWorkingSet(lg *logger.Logger, store *sync.Store, role domain.Role) {
	for _, o := range store.Filtered() {
		lg.Info("active_order", map[string]any{
			"order_id": o.ID.String(),
			"table":    o.TableNumber,
			"status":   string(domain.Classify(o)),
			"stage":    string(domain.ClassifyStage(o)),
			"lines":    len(domain.ItemsForRole(o, role)),
		})
	}
}
