package app

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/beachside-kiosk/internal/domain/agegate"
	"github.com/xenking/beachside-kiosk/internal/domain/menu"
	"github.com/xenking/beachside-kiosk/internal/identity"
	"github.com/xenking/beachside-kiosk/internal/session"
	"github.com/xenking/beachside-kiosk/pkg/term"
)

// Run wires all dependencies and executes exactly one kiosk session to
// completion. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Starting kiosk session",
		zap.String("restaurant", cfg.Restaurant),
		zap.Int("minimum_age", cfg.MinimumAge),
		zap.Bool("remote_verification", cfg.Verify.Enabled()))

	catalog := menu.Default()
	gate := agegate.New(cfg.MinimumAge)

	var verifier identity.Verifier
	if cfg.Verify.Enabled() {
		verifier = identity.NewClient(identity.ClientConfig{
			BaseURL: cfg.Verify.BaseURL,
			APIKey:  cfg.Verify.APIKey,
			Timeout: cfg.Verify.Timeout,
		})
	}

	meter := m.MeterProvider().Meter("beachside-kiosk")
	ordersCompleted, err := meter.Int64Counter("kiosk.orders.completed",
		metric.WithDescription("Orders paid in full"))
	if err != nil {
		return errors.Wrap(err, "create orders counter")
	}
	lineItems, err := meter.Int64Counter("kiosk.orders.line_items",
		metric.WithDescription("Line items across completed orders"))
	if err != nil {
		return errors.Wrap(err, "create line items counter")
	}
	revenue, err := meter.Float64Counter("kiosk.orders.revenue",
		metric.WithDescription("Revenue from completed orders"),
		metric.WithUnit("{usd}"))
	if err != nil {
		return errors.Wrap(err, "create revenue counter")
	}

	sess := session.New(
		session.Config{Restaurant: cfg.Restaurant},
		catalog,
		term.New(os.Stdin, os.Stdout),
		gate,
		verifier,
		lg,
	)

	result, err := sess.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "run session")
	}

	if result.Payment == nil {
		lg.Info("Session ended without payment",
			zap.Int("line_items", len(result.Order.Items())))
		return nil
	}

	attrs := metric.WithAttributes(attribute.String("restaurant", cfg.Restaurant))
	ordersCompleted.Add(ctx, 1, attrs)
	lineItems.Add(ctx, int64(len(result.Order.Items())), attrs)
	revenue.Add(ctx, result.Payment.Total.InexactFloat64(), attrs)

	lg.Info("Order completed",
		zap.String("receipt", result.ReceiptNumber),
		zap.Int("line_items", len(result.Order.Items())),
		zap.String("total", result.Payment.Total.StringFixed(2)),
		zap.String("tendered", result.Payment.Tendered.StringFixed(2)),
		zap.String("change", result.Payment.Change.StringFixed(2)))
	return nil
}
