package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	applogger "SmallCapLab/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestPublishMessageEncodesValues(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy")
	ctx := context.Background()

	require.NoError(t, p.PublishMessage(ctx, "logs", "raw"))
	require.NoError(t, p.PublishMessage(ctx, "logs", []byte("bytes")))
	require.NoError(t, p.PublishMessage(ctx, "logs", map[string]int{"count": 2}))

	require.Len(t, w.msgs, 3)
	assert.Equal(t, "logs", w.msgs[0].Topic)
	assert.Equal(t, "raw", string(w.msgs[0].Value))
	assert.Equal(t, "bytes", string(w.msgs[1].Value))
	assert.JSONEq(t, `{"count":2}`, string(w.msgs[2].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishMessageRejectsUnencodable(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	assert.Error(t, p.PublishMessage(context.Background(), "t", make(chan int)))
	assert.Empty(t, w.msgs)
}

func TestPublishMessageWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := newProducer(&fakeWriter{err: boom}, "gzip")

	err := p.PublishMessage(context.Background(), "t", "x")
	assert.ErrorIs(t, err, boom)
}

func TestProducerIsLogPublisher(t *testing.T) {
	w := &fakeWriter{}
	var pub applogger.Publisher = newProducer(w, "gzip")

	entries := []applogger.AggregatedLogEntry{{Level: "error", Message: "quote source failed", Count: 3}}
	require.NoError(t, pub.PublishMessage(context.Background(), "smallcap.logs", entries))

	require.Len(t, w.msgs, 1)
	assert.Contains(t, string(w.msgs[0].Value), "quote source failed")
	assert.Nil(t, w.msgs[0].Key)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Gzip, parseCompression("unknown"))
}

func TestNewWriterAppliesOptions(t *testing.T) {
	cfg := defaultProducerConfig()
	for _, opt := range []ProducerOption{
		WithBrokers([]string{"k1:9092"}),
		WithCompression("zstd"),
		WithRequiredAcks(-1),
		WithMaxAttempts(5),
		WithWriteTimeout(3 * time.Second),
	} {
		opt(cfg)
	}

	w := newWriter(cfg)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.Equal(t, kafka.Zstd, w.Compression)
	assert.Equal(t, 5, w.MaxAttempts)
	assert.Equal(t, 3*time.Second, w.WriteTimeout)
	assert.True(t, w.AllowAutoTopicCreation)
}
