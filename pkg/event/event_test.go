package event

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/honeyshop/pkg/workerpool"
	"github.com/stretchr/testify/assert"
)

func TestFire_RunsListenersInOrder(t *testing.T) {
	b := NewBus(nil)
	var got []string
	b.Listen("order.created", func(_ context.Context, p interface{}) { got = append(got, "a:"+p.(string)) })
	b.Listen("order.created", func(_ context.Context, p interface{}) { got = append(got, "b:"+p.(string)) })

	b.Fire(context.Background(), "order.created", "ORD-1")
	b.Fire(context.Background(), "nobody.listens", "x")

	assert.Equal(t, []string{"a:ORD-1", "b:ORD-1"}, got)
	assert.True(t, b.Has("order.created"))
	assert.False(t, b.Has("nobody.listens"))
}

func TestFireAsync_SurvivesCancelledRequest(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()
	b := NewBus(pool)

	done := make(chan error, 1)
	b.Listen("order.created", func(ctx context.Context, _ interface{}) { done <- ctx.Err() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b.FireAsync(ctx, "order.created", nil)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not run")
	}
}
