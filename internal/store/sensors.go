package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/status"
)

func (s *gormStore) ListSensors(ctx context.Context, f SensorFilter) ([]model.Sensor, error) {
	q := s.db.WithContext(ctx).Preload("Machine").Order("sensor_code ASC")
	if f.MachineID != nil {
		q = q.Where("machine_id = ?", *f.MachineID)
	}
	var sensors []model.Sensor
	if err := q.Find(&sensors).Error; err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}
	return sensors, nil
}

func (s *gormStore) GetSensor(ctx context.Context, id uuid.UUID) (*model.Sensor, error) {
	var sensor model.Sensor
	if err := first(s.db.WithContext(ctx).Preload("Machine"), &sensor, id); err != nil {
		return nil, err
	}
	return &sensor, nil
}

// CreateSensor stores a sensor, defaulting its unit from the sensor type.
func (s *gormStore) CreateSensor(ctx context.Context, sensor *model.Sensor) error {
	if sensor.Unit == nil || *sensor.Unit == "" {
		if unit := status.UnitFor(sensor.Type); unit != "" {
			sensor.Unit = &unit
		}
	}
	if err := s.db.WithContext(ctx).Omit("Machine").Create(sensor).Error; err != nil {
		return fmt.Errorf("failed to create sensor: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateSensor(ctx context.Context, id uuid.UUID, changes Changes) (*model.Sensor, error) {
	var sensor model.Sensor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateByID(tx, &sensor, id, changes)
	})
	if err != nil {
		return nil, err
	}
	return &sensor, nil
}

func (s *gormStore) DeleteSensor(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.Sensor{}, id, "sensor")
}

// ListReadings returns the most recent readings of a sensor, newest first.
func (s *gormStore) ListReadings(ctx context.Context, sensorID uuid.UUID, limit int) ([]model.SensorReading, error) {
	if limit <= 0 {
		limit = DefaultReadingsLimit
	}
	var readings []model.SensorReading
	err := s.db.WithContext(ctx).
		Where("sensor_id = ?", sensorID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list readings for sensor %s: %w", sensorID, err)
	}
	return readings, nil
}

// AddReading stores a reading, classifies it against the sensor's thresholds
// and moves the sensor's current value forward, all in one transaction.
func (s *gormStore) AddReading(ctx context.Context, sensorID uuid.UUID, in ReadingInput) (*ReadingResult, error) {
	return s.addReading(ctx, func(tx *gorm.DB, sensor *model.Sensor) error {
		return first(tx.Preload("Machine"), sensor, sensorID)
	}, in)
}

// AddReadingByCode is AddReading addressed by the sensor's code, as used by
// field gateways that do not know database ids.
func (s *gormStore) AddReadingByCode(ctx context.Context, sensorCode string, in ReadingInput) (*ReadingResult, error) {
	return s.addReading(ctx, func(tx *gorm.DB, sensor *model.Sensor) error {
		return notFound(tx.Preload("Machine").First(sensor, "sensor_code = ?", sensorCode).Error)
	}, in)
}

func (s *gormStore) addReading(ctx context.Context, load func(*gorm.DB, *model.Sensor) error, in ReadingInput) (*ReadingResult, error) {
	var res ReadingResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, &res.Sensor); err != nil {
			return err
		}
		sensor := &res.Sensor

		ts := in.Timestamp
		if ts.IsZero() {
			ts = s.now()
		}
		res.Level = status.SensorAlert(sensor.Status, in.Value, sensor.MinThreshold, sensor.MaxThreshold)
		res.Reading = model.SensorReading{
			SensorID:       sensor.ID,
			Value:          in.Value,
			Timestamp:      ts,
			AlertTriggered: res.Level.Triggered(),
			Notes:          in.Notes,
		}
		if err := tx.Omit("Sensor").Create(&res.Reading).Error; err != nil {
			return fmt.Errorf("failed to insert reading: %w", err)
		}

		// A late reading is kept in history but does not roll back the current value.
		if sensor.LastReading != nil && ts.Before(*sensor.LastReading) {
			return nil
		}
		value := in.Value
		err := tx.Model(&model.Sensor{}).
			Where("id = ?", sensor.ID).
			Updates(map[string]any{"current_value": value, "last_reading": ts}).Error
		if err != nil {
			return fmt.Errorf("failed to update sensor %s: %w", sensor.SensorCode, err)
		}
		sensor.CurrentValue = &value
		sensor.LastReading = &ts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListTriggeredAlerts returns readings that tripped an alert, newest first,
// with their sensor and machine.
func (s *gormStore) ListTriggeredAlerts(ctx context.Context, limit int) ([]model.SensorReading, error) {
	if limit <= 0 {
		limit = DefaultAlertsLimit
	}
	var readings []model.SensorReading
	err := s.db.WithContext(ctx).
		Preload("Sensor.Machine").
		Where("alert_triggered = ?", true).
		Order("timestamp DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return readings, nil
}

// ListLatestReadings returns the newest readings across all sensors.
func (s *gormStore) ListLatestReadings(ctx context.Context, limit int) ([]model.SensorReading, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	var readings []model.SensorReading
	err := s.db.WithContext(ctx).
		Preload("Sensor.Machine").
		Order("timestamp DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list latest readings: %w", err)
	}
	return readings, nil
}
