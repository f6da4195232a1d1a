package logger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topics  []string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *capturePublisher) entries() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestLogCollectorAggregatesDuplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 10, Topic: "logs", Publisher: pub})

	for i := 0; i < 3; i++ {
		c.AddLog("error", "fetch failed", map[string]interface{}{"exchange": "NYSE"}, "x.go:1")
	}
	c.AddLog("error", "fetch failed", map[string]interface{}{"exchange": "AMEX"}, "x.go:1")
	c.Close()

	got := pub.entries()
	require.Len(t, got, 2)
	counts := map[interface{}]int{}
	for _, e := range got {
		counts[e.Fields["exchange"]] = e.Count
	}
	assert.Equal(t, 3, counts["NYSE"])
	assert.Equal(t, 1, counts["AMEX"])
	assert.Equal(t, []string{"logs"}, pub.topics)
}

func TestLogCollectorFlushesOnThreshold(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Topic: "logs", Publisher: pub})
	defer c.Close()

	c.AddLog("error", "a", nil, "x.go:1")
	c.AddLog("error", "b", nil, "x.go:2")

	assert.Eventually(t, func() bool { return len(pub.entries()) == 2 }, time.Second, 10*time.Millisecond)
}

func TestLoggerErrorFeedsCollector(t *testing.T) {
	pub := &capturePublisher{}
	var buf bytes.Buffer
	l := &Logger{zl: zerolog.New(&buf)}
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "logs", Publisher: pub})

	l.Error("screen source failed", String("exchange", "NASDAQ"), Error(errors.New("boom")))
	l.Info("not collected")
	l.RemoveCollector()

	got := pub.entries()
	require.Len(t, got, 1)
	assert.Equal(t, "screen source failed", got[0].Message)
	assert.Equal(t, "boom", got[0].Fields["error"])
	assert.Contains(t, buf.String(), `"exchange":"NASDAQ"`)
}
