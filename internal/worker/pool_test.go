package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []EmailJobPayload
	fails int
}

func (f *fakeSender) Send(to, subject, body, attachmentPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, EmailJobPayload{ToEmail: to, Subject: subject, Body: body, PDFPath: attachmentPath})
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestPool(q Queue, sender Sender) *Pool {
	p := NewPool(q)
	p.pollTimeout = 20 * time.Millisecond
	p.Handle(QueueEmail, JobEmail, NewEmailWorker(sender).Process)
	return p
}

func TestPool_DeliversEnqueuedEmail(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewMemoryQueue()
	sender := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	p := newTestPool(q, sender)
	p.Start(ctx, 2)

	d := NewDispatcher(q)
	require.NoError(t, d.EnqueueEmail(ctx, EmailJobPayload{ToEmail: "ventas@proveedor.co", Subject: "Orden OC-1"}))

	assert.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	p.Wait()

	assert.Equal(t, "ventas@proveedor.co", sender.sent[0].ToEmail)
}

func TestPool_RetriesTransientFailures(t *testing.T) {
	q := NewMemoryQueue()
	sender := &fakeSender{fails: 2}
	p := newTestPool(q, sender)
	ctx := context.Background()

	require.NoError(t, NewDispatcher(q).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@b.co"}))
	for i := 0; i < 3; i++ {
		name, raw, err := q.Pop(ctx, 10*time.Millisecond, QueueEmail)
		require.NoError(t, err)
		p.process(ctx, name, raw)
	}

	assert.Equal(t, 1, sender.count())
	n, _ := DLQLength(ctx, q, QueueEmail)
	assert.Zero(t, n)
}

func TestPool_ExhaustedJobGoesToDLQ(t *testing.T) {
	q := NewMemoryQueue()
	sender := &fakeSender{fails: 10}
	p := newTestPool(q, sender)
	ctx := context.Background()

	require.NoError(t, NewDispatcher(q).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@b.co"}))
	for i := 0; i < DefaultMaxAttempts; i++ {
		name, raw, err := q.Pop(ctx, 10*time.Millisecond, QueueEmail)
		require.NoError(t, err)
		p.process(ctx, name, raw)
	}

	left, _ := q.Len(ctx, QueueEmail)
	assert.Zero(t, left)
	_, raw, err := q.Pop(ctx, 10*time.Millisecond, DLQPrefix+QueueEmail)
	require.NoError(t, err)

	var entry DLQEntry
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, JobEmail, entry.JobType)
	assert.Equal(t, DefaultMaxAttempts, entry.Attempts)
	assert.Contains(t, entry.Reason, "connection refused")
}

func TestPool_PermanentFailureSkipsRetry(t *testing.T) {
	q := NewMemoryQueue()
	p := newTestPool(q, &fakeSender{})
	ctx := context.Background()

	require.NoError(t, NewDispatcher(q).EnqueueEmail(ctx, EmailJobPayload{}))
	name, raw, err := q.Pop(ctx, 10*time.Millisecond, QueueEmail)
	require.NoError(t, err)
	p.process(ctx, name, raw)

	n, _ := DLQLength(ctx, q, QueueEmail)
	assert.Equal(t, int64(1), n)
}

func TestPool_UnknownJobType(t *testing.T) {
	q := NewMemoryQueue()
	p := newTestPool(q, &fakeSender{})
	ctx := context.Background()

	raw, _ := json.Marshal(Job{Type: "facturar", Payload: json.RawMessage(`{}`)})
	p.process(ctx, QueueEmail, raw)

	n, _ := DLQLength(ctx, q, QueueEmail)
	assert.Equal(t, int64(1), n)
}

func TestMemoryQueue_PopTimesOut(t *testing.T) {
	q := NewMemoryQueue()
	_, _, err := q.Pop(context.Background(), 10*time.Millisecond, QueueEmail)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEmailWorker_ReleasesAttachmentOnlyAfterDelivery(t *testing.T) {
	sender := &fakeSender{fails: 1}
	var released []string
	w := NewEmailWorker(sender).WithAttachmentCleanup(func(path string) error {
		released = append(released, path)
		return nil
	})
	raw, err := json.Marshal(EmailJobPayload{ToEmail: "a@b.co", PDFPath: "/tmp/envio-1/orden_OC-1.pdf"})
	require.NoError(t, err)

	require.Error(t, w.Process(context.Background(), raw))
	assert.Empty(t, released)

	require.NoError(t, w.Process(context.Background(), raw))
	assert.Equal(t, []string{"/tmp/envio-1/orden_OC-1.pdf"}, released)
}
