package worker

import (
	"context"
	"time"

	"ims/internal/dto"

	"github.com/rs/zerolog/log"
)

// LowStockChecker is satisfied by service.InventoryService.
type LowStockChecker interface {
	CheckLowStock(ctx context.Context) ([]dto.LowStockAlert, error)
}

// StartLowStockSweep runs checker.CheckLowStock every interval until ctx is
// done. A non-positive interval disables the sweep. The returned channel is
// closed when the goroutine exits.
func StartLowStockSweep(ctx context.Context, checker LowStockChecker, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		log.Info().Msg("low_stock_sweep: disabled")
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("low_stock_sweep: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("low_stock_sweep: shutting down")
				return
			case <-ticker.C:
				alerts, err := checker.CheckLowStock(ctx)
				if err != nil {
					log.Error().Err(err).Msg("low_stock_sweep: check failed")
				}
				if len(alerts) > 0 {
					log.Info().Int("alerts", len(alerts)).Msg("low_stock_sweep: products restocked")
				}
			}
		}
	}()
	return done
}
