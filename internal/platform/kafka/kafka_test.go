package kafka

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestCloudEventRoundTrip(t *testing.T) {
	ce, err := NewCloudEvent("service-subscription", "subscription.created", "abc", map[string]string{"username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)

	w := &recordingWriter{}
	p := NewProducerWithWriter(w, zap.NewNop())
	require.NoError(t, p.PublishEvent(context.Background(), "subscription.events", "abc", ce))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "subscription.events", w.msgs[0].Topic)
	assert.Equal(t, []byte("abc"), w.msgs[0].Key)

	parsed, err := ParseCloudEvent(w.msgs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, ce.ID, parsed.ID)
	assert.Equal(t, "subscription.created", parsed.Type)

	var data map[string]string
	require.NoError(t, parsed.ParseData(&data))
	assert.Equal(t, "alice", data["username"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestParseCloudEvent_Invalid(t *testing.T) {
	_, err := ParseCloudEvent([]byte("{"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"1"}`))
	assert.ErrorContains(t, err, "missing type")
}

func TestPublishEvent_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewProducerWithWriter(&recordingWriter{err: boom}, zap.NewNop())

	ce, err := NewCloudEvent("s", "t", "", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, p.PublishEvent(context.Background(), "topic", "k", ce), boom)
}
