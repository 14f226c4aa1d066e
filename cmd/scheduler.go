package main

import (
	"context"
	"time"
)

const (
	invoiceRunTimeout   = 5 * time.Minute
	linkCheckRunTimeout = 10 * time.Minute
)

// startSchedulers launches the daily background jobs: the bi-weekly invoice
// aggregation run and the live-link check over completed orders. Each tick
// is independent; a failed run is logged and retried on the next tick.
func (app *application) startSchedulers(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, invoiceRunTimeout)
			created, err := app.paymentService.RunScheduled(runCtx, time.Now())
			cancel()
			if err != nil {
				app.errorLog.Printf("invoice scheduler: run failed: %v", err)
			} else if created > 0 {
				app.infoLog.Printf("invoice scheduler: created %d invoices", created)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, linkCheckRunTimeout)
			checked, err := app.linkCheckService.RunOnce(runCtx)
			cancel()
			if err != nil {
				app.errorLog.Printf("link checker: run failed: %v", err)
			} else if checked > 0 {
				app.infoLog.Printf("link checker: checked %d submitted links", checked)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
