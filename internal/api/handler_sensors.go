package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"maintenance-backend/internal/alert"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/status"
	"maintenance-backend/internal/store"
)

type createSensorRequest struct {
	MachineID           uuid.UUID          `json:"machine_id" binding:"required"`
	Name                string             `json:"name" binding:"required,min=2"`
	SensorCode          string             `json:"sensor_code" binding:"required"`
	Type                model.SensorType   `json:"type" binding:"required,enum"`
	Status              model.SensorStatus `json:"status" binding:"omitempty,enum"`
	Unit                *string            `json:"unit"`
	MinThreshold        *float64           `json:"min_threshold"`
	MaxThreshold        *float64           `json:"max_threshold"`
	LocationDescription *string            `json:"location_description"`
	CalibrationDate     *Date              `json:"calibration_date"`
}

type updateSensorRequest struct {
	MachineID           *uuid.UUID          `json:"machine_id"`
	Name                *string             `json:"name" binding:"omitempty,min=2"`
	SensorCode          *string             `json:"sensor_code" binding:"omitempty,min=1"`
	Type                *model.SensorType   `json:"type" binding:"omitempty,enum"`
	Status              *model.SensorStatus `json:"status" binding:"omitempty,enum"`
	Unit                *string             `json:"unit"`
	MinThreshold        *float64            `json:"min_threshold"`
	MaxThreshold        *float64            `json:"max_threshold"`
	LocationDescription *string             `json:"location_description"`
	CalibrationDate     *Date               `json:"calibration_date"`
}

func (r updateSensorRequest) changes() store.Changes {
	ch := store.Changes{}
	setIf(ch, "machine_id", r.MachineID)
	setIf(ch, "name", r.Name)
	setIf(ch, "sensor_code", r.SensorCode)
	setIf(ch, "type", r.Type)
	setIf(ch, "status", r.Status)
	setIf(ch, "unit", r.Unit)
	setIf(ch, "min_threshold", r.MinThreshold)
	setIf(ch, "max_threshold", r.MaxThreshold)
	setIf(ch, "location_description", r.LocationDescription)
	setDate(ch, "calibration_date", r.CalibrationDate)
	return ch
}

type addReadingRequest struct {
	Value     *float64 `json:"value" binding:"required"`
	Timestamp *Date    `json:"timestamp"`
	Notes     *string  `json:"notes"`
}

// thresholdsValid reports whether min lies below max when both are set.
func thresholdsValid(min, max *float64) bool {
	return min == nil || max == nil || *min < *max
}

const thresholdsMessage = "Limite mínimo deve ser menor que o limite máximo"

// GetSensors lists sensors with their machine, optionally filtered by
// ?machine_id=.
func (h *Handler) GetSensors(c *gin.Context) {
	var f store.SensorFilter
	if raw := c.Query("machine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
			return
		}
		f.MachineID = &id
	}
	sensors, err := h.store.ListSensors(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, actionList, sensorEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(sensors, newSensorView))
}

func (h *Handler) GetSensor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.store.GetSensor(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, actionList, sensorEntity)
		return
	}
	c.JSON(http.StatusOK, newSensorView(*s))
}

func (h *Handler) CreateSensor(c *gin.Context) {
	var req createSensorRequest
	if !bind(c, &req, actionCreate, sensorEntity) {
		return
	}
	if !thresholdsValid(req.MinThreshold, req.MaxThreshold) {
		invalid(c, actionCreate, sensorEntity, thresholdsMessage)
		return
	}
	s := &model.Sensor{
		MachineID:           req.MachineID,
		Name:                req.Name,
		SensorCode:          req.SensorCode,
		Type:                req.Type,
		Status:              req.Status,
		Unit:                req.Unit,
		MinThreshold:        req.MinThreshold,
		MaxThreshold:        req.MaxThreshold,
		LocationDescription: req.LocationDescription,
		CalibrationDate:     req.CalibrationDate.Ptr(),
	}
	if _, err := h.store.GetMachine(c.Request.Context(), req.MachineID); err != nil {
		h.fail(c, err, actionCreate, sensorEntity.missing(machineEntity.notFound))
		return
	}
	if err := h.store.CreateSensor(c.Request.Context(), s); err != nil {
		h.fail(c, err, actionCreate, sensorEntity)
		return
	}
	c.JSON(http.StatusCreated, newSensorView(*s))
}

func (h *Handler) UpdateSensor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateSensorRequest
	if !bind(c, &req, actionUpdate, sensorEntity) {
		return
	}
	ctx := c.Request.Context()
	if req.MinThreshold != nil || req.MaxThreshold != nil {
		current, err := h.store.GetSensor(ctx, id)
		if err != nil {
			h.fail(c, err, actionUpdate, sensorEntity)
			return
		}
		min, max := current.MinThreshold, current.MaxThreshold
		if req.MinThreshold != nil {
			min = req.MinThreshold
		}
		if req.MaxThreshold != nil {
			max = req.MaxThreshold
		}
		if !thresholdsValid(min, max) {
			invalid(c, actionUpdate, sensorEntity, thresholdsMessage)
			return
		}
	}
	s, err := h.store.UpdateSensor(ctx, id, req.changes())
	if err != nil {
		h.fail(c, err, actionUpdate, sensorEntity)
		return
	}
	c.JSON(http.StatusOK, newSensorView(*s))
}

func (h *Handler) DeleteSensor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteSensor(c.Request.Context(), id); err != nil {
		h.fail(c, err, actionDelete, sensorEntity)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSensorReadings lists a sensor's readings, newest first, up to ?limit=.
func (h *Handler) GetSensorReadings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	sensor, err := h.store.GetSensor(ctx, id)
	if err != nil {
		h.fail(c, err, actionList, readingEntity)
		return
	}
	readings, err := h.store.ListReadings(ctx, id, queryLimit(c, store.DefaultReadingsLimit))
	if err != nil {
		h.fail(c, err, actionList, readingEntity)
		return
	}
	for i := range readings {
		readings[i].Sensor = sensor
	}
	c.JSON(http.StatusOK, mapViews(readings, newReadingView))
}

// AddSensorReading records a reading and raises an alert when it crosses the
// sensor's thresholds.
func (h *Handler) AddSensorReading(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addReadingRequest
	if !bind(c, &req, actionCreate, readingEntity) {
		return
	}
	in := store.ReadingInput{Value: *req.Value, Notes: req.Notes}
	if t := req.Timestamp.Ptr(); t != nil {
		in.Timestamp = t.UTC()
	}

	ctx := c.Request.Context()
	res, err := h.store.AddReading(ctx, id, in)
	if err != nil {
		h.fail(c, err, actionCreate, readingEntity)
		return
	}
	if ev, ok := alert.FromReading(res); ok && h.alerts != nil {
		if err := h.alerts.Publish(ctx, ev); err != nil {
			h.log.Warn("failed to publish alert", zap.String("sensor_code", ev.SensorCode), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"reading":     res.Reading,
		"sensor":      newSensorView(res.Sensor),
		"alert_level": res.Level,
		"alert_label": res.Level.Label(),
	})
}

// GetSensorAlerts lists readings that triggered alerts, newest first.
func (h *Handler) GetSensorAlerts(c *gin.Context) {
	readings, err := h.store.ListTriggeredAlerts(c.Request.Context(), queryLimit(c, store.DefaultAlertsLimit))
	if err != nil {
		h.fail(c, err, actionList, readingEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(readings, newReadingView))
}

// GetLatestReadings lists the newest readings across all sensors.
func (h *Handler) GetLatestReadings(c *gin.Context) {
	readings, err := h.store.ListLatestReadings(c.Request.Context(), queryLimit(c, store.DefaultLatestLimit))
	if err != nil {
		h.fail(c, err, actionList, readingEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(readings, newReadingView))
}

type sensorUnit struct {
	Type  model.SensorType `json:"type"`
	Label string           `json:"label"`
	Unit  string           `json:"unit"`
}

// GetSensorUnits lists the sensor types with their display label and unit.
func (h *Handler) GetSensorUnits(c *gin.Context) {
	units := make([]sensorUnit, 0, len(model.SensorTypes))
	for _, t := range model.SensorTypes {
		units = append(units, sensorUnit{Type: t, Label: t.Label(), Unit: status.UnitFor(t)})
	}
	c.JSON(http.StatusOK, units)
}

// queryLimit reads ?limit=, falling back to def for missing or bad values.
func queryLimit(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > 1000 {
		return 1000
	}
	return n
}
