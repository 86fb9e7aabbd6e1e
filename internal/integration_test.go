package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-backend/config"
	"maintenance-backend/internal/alert"
	"maintenance-backend/internal/api"
	"maintenance-backend/internal/db"
	"maintenance-backend/internal/ingest"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

type capturingSubscriber struct {
	mu           sync.Mutex
	handler      ingest.MessageHandler
	disconnected bool
}

func (s *capturingSubscriber) Subscribe(_ string, _ byte, handler ingest.MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
	return nil
}

func (s *capturingSubscriber) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnected = true
}

func (s *capturingSubscriber) deliver(topic string, payload []byte) bool {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h == nil {
		return false
	}
	h(topic, payload)
	return true
}

// TestReadingLifecycle follows a reading published by a field gateway through
// storage and the alert stream to the dashboard endpoints.
func TestReadingLifecycle(t *testing.T) {
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	machine := &model.Machine{Name: "HID-205", SerialNumber: "SN-205", Location: "Prensa 2"}
	require.NoError(t, appStore.CreateMachine(ctx, machine))
	sensor := &model.Sensor{
		MachineID:    machine.ID,
		Name:         "Pressão hidráulica",
		SensorCode:   "PRS-205",
		Type:         model.SensorPressure,
		MinThreshold: ptr(50.0),
		MaxThreshold: ptr(180.0),
	}
	require.NoError(t, appStore.CreateSensor(ctx, sensor))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	sinks := alert.Fanout{alert.NewStreamSink(rdb, "maintenance:alerts", 100)}

	ingestCfg := &config.IngestConfig{Enabled: true, TopicPrefix: "maintenance/sensors", QoS: 1}
	sub := &capturingSubscriber{}
	svc := ingest.NewService(ingestCfg, appStore, sinks, sub, zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	topic := "maintenance/sensors/PRS-205/readings"
	require.Eventually(t, func() bool {
		return sub.deliver(topic, []byte(`{"value": 120}`))
	}, time.Second, 10*time.Millisecond)
	require.True(t, sub.deliver(topic, []byte(`{"value": 195.5, "notes": "pico de pressão"}`)))

	// Only the out-of-range reading reaches the stream.
	msgs, err := rdb.XRange(ctx, "maintenance:alerts", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "critical", msgs[0].Values["level"])
	assert.Equal(t, machine.ID.String(), msgs[0].Values["machine_id"])

	var ev alert.Event
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &ev))
	assert.Equal(t, "PRS-205", ev.SensorCode)
	assert.Equal(t, "HID-205", ev.MachineName)
	assert.Equal(t, "bar", ev.Unit)
	assert.InDelta(t, 195.5, ev.Value, 1e-9)

	handler := api.NewHandler(appStore, nil, sinks, 6, zap.NewNop())
	router := api.NewRouter(handler, config.ServerConfig{RateLimitPerSec: 100, RateLimitBurst: 100, CacheTTL: time.Minute}, zap.NewNop())
	get := func(path string, v any) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
	}

	var alerts []map[string]any
	get("/api/sensors/alerts", &alerts)
	require.Len(t, alerts, 1)
	assert.Equal(t, "pico de pressão", alerts[0]["notes"])
	assert.Equal(t, "critical", alerts[0]["alert_level"])

	var current map[string]any
	get("/api/sensors/"+sensor.ID.String(), &current)
	assert.Equal(t, 195.5, current["current_value"])
	assert.Equal(t, "critical", current["alert_level"])
	assert.Equal(t, "Crítico", current["alert_label"])

	var summary map[string]any
	get("/api/reports/summary", &summary)
	assert.Equal(t, 1.0, summary["critical_alerts"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ingest did not stop after cancel")
	}
	sub.mu.Lock()
	assert.True(t, sub.disconnected)
	sub.mu.Unlock()
}

func ptr[T any](v T) *T { return &v }
