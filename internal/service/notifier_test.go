package service_test

import (
	"context"
	"testing"
	"time"

	"ims/internal/dto"
	"ims/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_FanOut(t *testing.T) {
	b := service.NewBroker(4)
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()
	require.Equal(t, 2, b.Subscribers())

	b.Notify(context.Background(), dto.ChangeEvent{Kind: dto.EventProductSold, ProductID: 1})

	for _, ch := range []<-chan dto.ChangeEvent{a, c} {
		select {
		case evt := <-ch:
			assert.Equal(t, dto.EventProductSold, evt.Kind)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := service.NewBroker(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Notify(context.Background(), dto.ChangeEvent{Kind: dto.EventProductAdded})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := service.NewBroker(1)
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())
	b.Notify(context.Background(), dto.ChangeEvent{})
}
