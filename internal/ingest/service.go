// Package ingest receives sensor readings from field gateways over MQTT and
// records them, raising alerts for readings outside their thresholds.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"maintenance-backend/config"
	"maintenance-backend/internal/alert"
	"maintenance-backend/internal/store"
)

// ReadingStore is the slice of the store ingest writes through.
type ReadingStore interface {
	AddReadingByCode(ctx context.Context, sensorCode string, in store.ReadingInput) (*store.ReadingResult, error)
}

// Message is the JSON payload a gateway publishes for one reading. When
// sensor_code is omitted it is taken from the topic.
type Message struct {
	SensorCode string     `json:"sensor_code"`
	Value      *float64   `json:"value"`
	Timestamp  *time.Time `json:"timestamp"`
	Notes      *string    `json:"notes"`
}

// Service subscribes to the readings topic and stores what arrives.
type Service struct {
	cfg   *config.IngestConfig
	store ReadingStore
	sink  alert.Sink
	sub   Subscriber
	log   *zap.Logger
}

// NewService creates an ingest service reading from sub.
func NewService(cfg *config.IngestConfig, store ReadingStore, sink alert.Sink, sub Subscriber, log *zap.Logger) *Service {
	return &Service{cfg: cfg, store: store, sink: sink, sub: sub, log: log.Named("ingest")}
}

// Run subscribes and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.log.Info("ingest is disabled, not starting")
		return nil
	}
	topic := s.cfg.ReadingsTopic()
	err := s.sub.Subscribe(topic, s.cfg.QoS, func(topic string, payload []byte) {
		if err := s.HandleMessage(ctx, topic, payload); err != nil {
			s.log.Warn("dropping reading", zap.String("topic", topic), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("ingest started", zap.String("topic", topic))

	<-ctx.Done()
	s.sub.Disconnect()
	s.log.Info("ingest shutting down")
	return nil
}

// HandleMessage decodes and stores one reading and publishes its alert, if any.
func (s *Service) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("failed to decode reading: %w", err)
	}
	code := strings.TrimSpace(msg.SensorCode)
	if code == "" {
		code = s.codeFromTopic(topic)
	}
	if code == "" {
		return errors.New("reading has no sensor code")
	}
	if msg.Value == nil {
		return fmt.Errorf("reading for sensor %s has no value", code)
	}

	in := store.ReadingInput{Value: *msg.Value, Notes: msg.Notes}
	if msg.Timestamp != nil {
		in.Timestamp = msg.Timestamp.UTC()
	}
	res, err := s.store.AddReadingByCode(ctx, code, in)
	if err != nil {
		return fmt.Errorf("failed to store reading for sensor %s: %w", code, err)
	}

	ev, ok := alert.FromReading(res)
	if !ok {
		return nil
	}
	s.log.Info("sensor alert",
		zap.String("sensor_code", ev.SensorCode),
		zap.String("level", string(ev.Level)),
		zap.Float64("value", ev.Value))
	if err := s.sink.Publish(ctx, ev); err != nil {
		return fmt.Errorf("failed to publish alert for sensor %s: %w", code, err)
	}
	return nil
}

// codeFromTopic extracts <code> from "<prefix>/<code>/readings".
func (s *Service) codeFromTopic(topic string) string {
	rest, ok := strings.CutPrefix(topic, s.cfg.TopicPrefix+"/")
	if !ok {
		return ""
	}
	code, ok := strings.CutSuffix(rest, "/readings")
	if !ok || strings.Contains(code, "/") {
		return ""
	}
	return code
}
