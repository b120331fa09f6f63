package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// placedOrdersCounter creates the counter the order service increments once
// per persisted order.
func placedOrdersCounter(m *app.Telemetry) (metric.Int64Counter, error) {
	meter := m.MeterProvider().Meter("github.com/pecommerce/storefront")
	c, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders successfully persisted"))
	if err != nil {
		return nil, errors.Wrap(err, "orders placed counter")
	}
	return c, nil
}

// registerPoolMetrics exports pgxpool connection statistics through the
// application meter so pool exhaustion shows up in dashboards.
func registerPoolMetrics(m *app.Telemetry, pool *pgxpool.Pool) error {
	meter := m.MeterProvider().Meter("github.com/pecommerce/storefront")

	acquired, err := meter.Int64ObservableGauge("db.pool.connections.acquired",
		metric.WithDescription("Connections currently checked out of the pool"))
	if err != nil {
		return errors.Wrap(err, "acquired gauge")
	}
	idle, err := meter.Int64ObservableGauge("db.pool.connections.idle",
		metric.WithDescription("Idle connections in the pool"))
	if err != nil {
		return errors.Wrap(err, "idle gauge")
	}
	waits, err := meter.Int64ObservableCounter("db.pool.acquire.waits",
		metric.WithDescription("Acquires that had to wait for a free connection"))
	if err != nil {
		return errors.Wrap(err, "waits counter")
	}

	attrs := metric.WithAttributes(attribute.String("db.system", "postgresql"))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stat := pool.Stat()
		o.ObserveInt64(acquired, int64(stat.AcquiredConns()), attrs)
		o.ObserveInt64(idle, int64(stat.IdleConns()), attrs)
		o.ObserveInt64(waits, stat.EmptyAcquireCount(), attrs)
		return nil
	}, acquired, idle, waits)
	if err != nil {
		return errors.Wrap(err, "register callback")
	}
	return nil
}
