// Package alert turns readings that cross a sensor's thresholds into events
// and delivers them to the configured sinks.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"maintenance-backend/internal/status"
	"maintenance-backend/internal/store"
)

// Event describes a reading that raised an alert.
type Event struct {
	MachineID   uuid.UUID         `json:"machine_id"`
	MachineName string            `json:"machine_name"`
	SensorID    uuid.UUID         `json:"sensor_id"`
	SensorCode  string            `json:"sensor_code"`
	SensorName  string            `json:"sensor_name"`
	Value       float64           `json:"value"`
	Unit        string            `json:"unit,omitempty"`
	Level       status.AlertLevel `json:"level"`
	Timestamp   time.Time         `json:"timestamp"`
	Message     string            `json:"message"`
}

// FromReading builds the event for a stored reading. ok is false when the
// reading did not trigger an alert.
func FromReading(res *store.ReadingResult) (ev Event, ok bool) {
	if res == nil || !res.Level.Triggered() {
		return Event{}, false
	}
	sensor := res.Sensor
	ev = Event{
		MachineID:  sensor.MachineID,
		SensorID:   sensor.ID,
		SensorCode: sensor.SensorCode,
		SensorName: sensor.Name,
		Value:      res.Reading.Value,
		Level:      res.Level,
		Timestamp:  res.Reading.Timestamp,
	}
	if sensor.Machine != nil {
		ev.MachineName = sensor.Machine.Name
	}
	if sensor.Unit != nil {
		ev.Unit = *sensor.Unit
	} else {
		ev.Unit = status.UnitFor(sensor.Type)
	}
	ev.Message = ev.describe()
	return ev, true
}

// Title is the short headline used for notifications.
func (e Event) Title() string {
	return fmt.Sprintf("%s: %s", e.Level.Label(), e.SensorName)
}

func (e Event) describe() string {
	where := e.MachineName
	if where == "" {
		where = e.MachineID.String()
	}
	return fmt.Sprintf("%s (%s) em %s registrou %.2f%s", e.SensorName, e.SensorCode, where, e.Value, e.Unit)
}

// Sink receives alert events.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Publish(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Fanout delivers every event to all of its sinks. A failing sink does not
// stop delivery to the others.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
