// Package events publishes analysis results for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// DominantFrequencyEvent announces the forcing frequency extracted from a measurement
type DominantFrequencyEvent struct {
	AnalysisID  string    `json:"analysis_id"`
	Frequency   float64   `json:"frequency"`
	Amplitude   float64   `json:"amplitude"`
	SampleRate  float64   `json:"sample_rate"`
	SampleCount int       `json:"sample_count"`
	Found       bool      `json:"found"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers result events
type Publisher interface {
	PublishDominantFrequency(ctx context.Context, event DominantFrequencyEvent) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by analysis ID
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher for topic on brokers
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}, topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// PublishDominantFrequency encodes event as JSON and writes it synchronously
func (p *KafkaPublisher) PublishDominantFrequency(ctx context.Context, event DominantFrequencyEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AnalysisID),
		Value: value,
		Time:  event.Timestamp,
	}); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}

	log.Debug().Str("topic", p.topic).Str("analysisID", event.AnalysisID).Float64("frequency", event.Frequency).Msg("Published dominant frequency")
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events
type NopPublisher struct{}

func (NopPublisher) PublishDominantFrequency(context.Context, DominantFrequencyEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

// New returns a Kafka publisher when brokers are configured, otherwise a NopPublisher
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 || topic == "" {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
