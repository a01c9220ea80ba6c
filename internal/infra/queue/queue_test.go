package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

// MockDeliverer
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Finalize(ctx context.Context, d entity.Draft) error {
	return m.Called(ctx, d).Error(0)
}

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

var testDraft = entity.Draft{
	Subject:  "Intro",
	Body:     "<p>Hi</p>",
	Contacts: []entity.Contact{{Name: "Jane Doe", Email: "jane@acme.io", Company: "Acme"}},
}

func TestProducerPublishFinalize(t *testing.T) {
	pub := &fakePublisher{}
	p := &Producer{ch: pub, logger: zap.NewNop()}

	err := p.PublishFinalize(t.Context(), FinalizeMessage{ID: "d1", Draft: testDraft})
	require.NoError(t, err)

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "d1", pub.msg.MessageId)

	var got FinalizeMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, testDraft, got.Draft)
}

func TestProducerFinalizeAssignsID(t *testing.T) {
	pub := &fakePublisher{}
	p := &Producer{ch: pub, logger: zap.NewNop()}

	require.NoError(t, p.Finalize(t.Context(), testDraft))
	assert.NotEmpty(t, pub.msg.MessageId)

	var got FinalizeMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, pub.msg.MessageId, got.ID)
	assert.False(t, got.QueuedAt.IsZero())
}

func TestProducerPublishError(t *testing.T) {
	p := &Producer{ch: &fakePublisher{err: errors.New("channel closed")}, logger: zap.NewNop()}
	err := p.PublishFinalize(t.Context(), FinalizeMessage{ID: "d1"})
	assert.ErrorContains(t, err, "channel closed")
}

func delivery(t *testing.T, ack *fakeAck, body any) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: raw}
}

func TestWorkerAcksDelivered(t *testing.T) {
	d := new(MockDeliverer)
	d.On("Finalize", mock.Anything, testDraft).Return(nil)
	w := &Worker{deliverer: d, logger: zap.NewNop()}

	ack := &fakeAck{}
	w.handle(t.Context(), delivery(t, ack, FinalizeMessage{ID: "d1", Draft: testDraft}))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	d.AssertExpectations(t)
}

func TestWorkerDeadLettersFailures(t *testing.T) {
	d := new(MockDeliverer)
	d.On("Finalize", mock.Anything, mock.Anything).Return(errors.New("webhook down"))
	w := &Worker{deliverer: d, logger: zap.NewNop()}

	ack := &fakeAck{}
	w.handle(t.Context(), delivery(t, ack, FinalizeMessage{ID: "d1", Draft: testDraft}))
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)

	bad := &fakeAck{}
	w.handle(t.Context(), delivery(t, bad, []byte("{not json")))
	assert.True(t, bad.nacked)
	assert.False(t, bad.requeued)
	d.AssertNumberOfCalls(t, "Finalize", 1)
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	d := new(MockDeliverer)
	d.On("Finalize", mock.Anything, mock.Anything).Return(nil)
	w := &Worker{deliverer: d, logger: zap.NewNop()}

	msgs := make(chan amqp.Delivery, 1)
	ack := &fakeAck{}
	msgs <- delivery(t, ack, FinalizeMessage{ID: "d1", Draft: testDraft})
	close(msgs)

	require.NoError(t, w.run(t.Context(), msgs))
	assert.True(t, ack.acked)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.NoError(t, w.run(ctx, make(chan amqp.Delivery)))
}
