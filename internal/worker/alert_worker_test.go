package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ims/internal/config"
	"ims/internal/dto"
	"ims/internal/infra"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	configured bool
	err        error
	sent       []string
	bodies     []string
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+subject)
	m.bodies = append(m.bodies, body)
	return nil
}

func alertPayload(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(dto.LowStockAlert{
		ProductID:       1,
		Name:            "Widget",
		Quantity:        7,
		RestockQuantity: 10,
		NewQuantity:     17,
		OrderTotal:      decimal.RequireFromString("50"),
		Message:         "Low stock level for Widget. Current quantity: 7",
	})
	require.NoError(t, err)
	return raw
}

func TestLowStockAlertWorker_Sends(t *testing.T) {
	m := &fakeMailer{configured: true}
	w := NewLowStockAlertWorker(m, nil, "ops@example.test")

	require.NoError(t, w.Process(context.Background(), alertPayload(t)))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "ops@example.test|Low stock: Widget", m.sent[0])
	assert.Contains(t, m.bodies[0], "Current quantity: 7")
	assert.Contains(t, m.bodies[0], "total 50.00")
}

func TestLowStockAlertWorker_SMTPMailer(t *testing.T) {
	var m AlertMailer = infra.NewMailer(&config.Config{SMTPPort: 587})
	assert.False(t, m.Configured())

	// no SMTP host: the worker skips instead of dialing
	w := NewLowStockAlertWorker(m, nil, "ops@example.test")
	require.NoError(t, w.Process(context.Background(), alertPayload(t)))
}

func TestLowStockAlertWorker_SkipsWhenUnconfigured(t *testing.T) {
	m := &fakeMailer{configured: false}
	assert.NoError(t, NewLowStockAlertWorker(m, nil, "ops@example.test").Process(context.Background(), alertPayload(t)))
	assert.NoError(t, NewLowStockAlertWorker(&fakeMailer{configured: true}, nil, "").Process(context.Background(), alertPayload(t)))
	assert.Empty(t, m.sent)
}

func TestLowStockAlertWorker_BadPayloadIsDropped(t *testing.T) {
	m := &fakeMailer{configured: true}
	assert.NoError(t, NewLowStockAlertWorker(m, nil, "ops@example.test").Process(context.Background(), json.RawMessage(`"x"`)))
	assert.Empty(t, m.sent)
}

func TestLowStockAlertWorker_CircuitOpens(t *testing.T) {
	m := &fakeMailer{configured: true, err: errors.New("connection refused")}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	w := NewLowStockAlertWorker(m, cb, "ops@example.test")

	assert.Error(t, w.Process(context.Background(), alertPayload(t)))
	assert.Error(t, w.Process(context.Background(), alertPayload(t)))
	assert.Equal(t, infra.CBOpen, cb.State())
	assert.ErrorIs(t, w.Process(context.Background(), alertPayload(t)), infra.ErrCircuitOpen)
}
