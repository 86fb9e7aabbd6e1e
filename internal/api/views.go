package api

import (
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/status"
)

// The views decorate stored rows with the derived fields the dashboard
// renders: display labels, badge tones and alert levels.

type machineView struct {
	model.Machine
	StatusLabel string     `json:"status_label"`
	Tone        model.Tone `json:"tone"`
}

func newMachineView(m model.Machine) machineView {
	return machineView{Machine: m, StatusLabel: m.Status.Label(), Tone: m.Status.Tone()}
}

type partView struct {
	model.Part
	StatusLabel  string     `json:"status_label"`
	Tone         model.Tone `json:"tone"`
	NeedsRestock bool       `json:"needs_restock"`
}

func newPartView(p model.Part) partView {
	return partView{Part: p, StatusLabel: p.Status.Label(), Tone: p.Status.Tone(), NeedsRestock: status.NeedsRestock(p)}
}

type sensorView struct {
	model.Sensor
	TypeLabel   string            `json:"type_label"`
	StatusLabel string            `json:"status_label"`
	AlertLevel  status.AlertLevel `json:"alert_level"`
	AlertLabel  string            `json:"alert_label"`
	Tone        model.Tone        `json:"tone"`
}

func newSensorView(s model.Sensor) sensorView {
	level := status.SensorAlertFor(s)
	return sensorView{
		Sensor:      s,
		TypeLabel:   s.Type.Label(),
		StatusLabel: s.Status.Label(),
		AlertLevel:  level,
		AlertLabel:  level.Label(),
		Tone:        level.Tone(),
	}
}

type readingView struct {
	model.SensorReading
	AlertLevel status.AlertLevel `json:"alert_level,omitempty"`
	Tone       model.Tone        `json:"tone,omitempty"`
}

// newReadingView classifies the reading against its sensor's current
// thresholds when the sensor is loaded.
func newReadingView(r model.SensorReading) readingView {
	v := readingView{SensorReading: r}
	if r.Sensor != nil {
		v.AlertLevel = status.SensorAlert(r.Sensor.Status, r.Value, r.Sensor.MinThreshold, r.Sensor.MaxThreshold)
		v.Tone = v.AlertLevel.Tone()
	}
	return v
}

type employeeView struct {
	model.Employee
	StatusLabel string `json:"status_label"`
}

func newEmployeeView(e model.Employee) employeeView {
	return employeeView{Employee: e, StatusLabel: e.Status.Label()}
}

type workOrderView struct {
	model.WorkOrder
	StatusLabel   string     `json:"status_label"`
	Tone          model.Tone `json:"tone"`
	PriorityLabel string     `json:"priority_label"`
	PriorityTone  model.Tone `json:"priority_tone"`
	TypeLabel     string     `json:"maintenance_type_label"`
}

func newWorkOrderView(w model.WorkOrder) workOrderView {
	return workOrderView{
		WorkOrder:     w,
		StatusLabel:   w.Status.Label(),
		Tone:          w.Status.Tone(),
		PriorityLabel: w.Priority.Label(),
		PriorityTone:  w.Priority.Tone(),
		TypeLabel:     w.MaintenanceType.Label(),
	}
}

// mapViews converts a slice of rows with fn.
func mapViews[T, V any](rows []T, fn func(T) V) []V {
	out := make([]V, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
