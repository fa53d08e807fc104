package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/notifications"
	"github.com/shashiranjanraj/honeyshop/pkg/notification"
	"github.com/shashiranjanraj/honeyshop/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  map[string]notification.Notification
	fails int
}

func (s *recordingSender) Send(_ context.Context, address string, n notification.Notification) []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails > 0 {
		s.fails--
		return []error{errors.New("smtp: connection refused")}
	}
	if s.sent == nil {
		s.sent = map[string]notification.Notification{}
	}
	s.sent[address] = n
	return nil
}

func (s *recordingSender) get(address string) (notification.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.sent[address]
	return n, ok
}

func TestOrderConfirmationJob_RoundTripsThroughQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &recordingSender{fails: 1}
	m := queue.NewManager(queue.NewMemoryDriver(8))
	m.SetBackoff(time.Millisecond)
	Register(m, sender)
	m.StartWorkers(ctx, 1)

	require.NoError(t, m.Dispatch(ctx, &OrderConfirmationJob{
		Email:        "bee@example.com",
		Notification: notifications.OrderConfirmation{OrderNumber: "ORD-20260101-0000ABCD", Total: "12.00"},
	}))

	require.Eventually(t, func() bool {
		_, ok := sender.get("bee@example.com")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	n, _ := sender.get("bee@example.com")
	assert.Equal(t, "ORD-20260101-0000ABCD", n.(notifications.OrderConfirmation).OrderNumber)
	assert.Empty(t, m.FailedJobs())
}

func TestOrderConfirmationJob_WithoutSender(t *testing.T) {
	err := (&OrderConfirmationJob{}).Handle(context.Background())
	assert.Error(t, err)
}
