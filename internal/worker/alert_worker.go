package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"ims/internal/dto"
	"ims/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertMailer is the subset of infra.Mailer the alert worker needs.
type AlertMailer interface {
	Configured() bool
	Send(to, subject, body string) error
}

var _ AlertMailer = (*infra.Mailer)(nil)

// LowStockAlertWorker e-mails low-stock alerts popped from QueueLowStockAlert.
// Sends go through a circuit breaker so a dead SMTP server is not hammered.
type LowStockAlertWorker struct {
	mailer AlertMailer
	cb     *infra.CircuitBreaker
	to     string
}

func NewLowStockAlertWorker(mailer AlertMailer, cb *infra.CircuitBreaker, to string) *LowStockAlertWorker {
	if cb == nil {
		cb = infra.NewCircuitBreaker(infra.CircuitBreakerConfig{})
	}
	return &LowStockAlertWorker{mailer: mailer, cb: cb, to: to}
}

func (w *LowStockAlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var alert dto.LowStockAlert
	if err := json.Unmarshal(raw, &alert); err != nil {
		// retrying cannot fix a bad payload
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return nil
	}
	if w.to == "" || w.mailer == nil || !w.mailer.Configured() {
		log.Info().Str("product", alert.Name).Int("quantity", alert.Quantity).Msg("alert_worker: e-mail not configured, skipping")
		return nil
	}

	subject, body := alertMessage(alert)
	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.to, subject, body)
	})
	if err != nil {
		log.Error().Err(err).Str("to", w.to).Str("circuit", w.cb.State().String()).Msg("alert_worker: send failed")
		return err
	}
	log.Info().Str("to", w.to).Str("product", alert.Name).Msg("alert_worker: low stock alert sent")
	return nil
}

func alertMessage(a dto.LowStockAlert) (subject, body string) {
	subject = fmt.Sprintf("Low stock: %s", a.Name)
	body = fmt.Sprintf("%s\n\nAn order for %d units (total %s) was placed automatically.\nNew quantity: %d\n",
		a.Message, a.RestockQuantity, a.OrderTotal.StringFixed(2), a.NewQuantity)
	return subject, body
}
