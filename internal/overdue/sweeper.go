// Package overdue periodically flips unpaid invoices whose due date has
// passed to the overdue status.
package overdue

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/invoiceb2b/financing-api/internal/metrics"
	"github.com/invoiceb2b/financing-api/internal/repository"
)

type Sweeper struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
	cronExpr string
}

func NewSweeper(invoices repository.InvoiceRepository, logger *slog.Logger, cronExpr string) *Sweeper {
	return &Sweeper{
		invoices: invoices,
		logger:   logger.With("component", "overdue_sweeper"),
		cronExpr: cronExpr,
	}
}

// Start runs the sweep on the configured cron schedule until ctx is
// cancelled. The schedule is validated at startup; a bad expression is a
// configuration error, not something to limp along with.
func (s *Sweeper) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.cronExpr, func() { s.sweep(ctx) }); err != nil {
		return err
	}

	c.Start()
	s.logger.Info("overdue sweeper started", "cron", s.cronExpr)

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	s.logger.Info("overdue sweeper shut down")
	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.invoices.MarkOverdue(ctx, time.Now())
	if err != nil {
		s.logger.ErrorContext(ctx, "mark overdue invoices", "error", err)
		return
	}
	if n > 0 {
		metrics.InvoicesMarkedOverdue.Add(float64(n))
		s.logger.InfoContext(ctx, "marked invoices overdue", "count", n)
	}
}
