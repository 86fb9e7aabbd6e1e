package status

import "maintenance-backend/internal/model"

// AlertLevel is the severity of a sensor's current value.
type AlertLevel string

const (
	AlertNormal   AlertLevel = "normal"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
	AlertFault    AlertLevel = "fault"
	AlertInactive AlertLevel = "inactive"
)

// warningRatio is the fraction of the maximum threshold above which a value
// is reported as a warning.
const warningRatio = 0.9

// SensorAlert derives the alert level of a value read by a sensor in the given
// status. Faulty and inactive sensors report their status; thresholds that are
// not configured are not checked.
func SensorAlert(s model.SensorStatus, value float64, min, max *float64) AlertLevel {
	switch s {
	case model.SensorError:
		return AlertFault
	case model.SensorInactive:
		return AlertInactive
	}
	if max != nil && value > *max {
		return AlertCritical
	}
	if min != nil && value < *min {
		return AlertCritical
	}
	if max != nil && value > *max*warningRatio {
		return AlertWarning
	}
	return AlertNormal
}

// SensorAlertFor derives the alert level of a sensor's current value. Sensors
// that never reported are normal unless their status says otherwise.
func SensorAlertFor(s model.Sensor) AlertLevel {
	if s.CurrentValue == nil {
		return SensorAlert(s.Status, 0, nil, nil)
	}
	return SensorAlert(s.Status, *s.CurrentValue, s.MinThreshold, s.MaxThreshold)
}

// Triggered reports whether a reading at this level raises an alert.
func (l AlertLevel) Triggered() bool {
	return l == AlertWarning || l == AlertCritical
}

func (l AlertLevel) Label() string {
	switch l {
	case AlertNormal:
		return "Normal"
	case AlertWarning:
		return "Alerta"
	case AlertCritical:
		return "Crítico"
	case AlertFault:
		return "Falha"
	case AlertInactive:
		return "Inativo"
	}
	return string(l)
}

func (l AlertLevel) Tone() model.Tone {
	switch l {
	case AlertNormal:
		return model.ToneSuccess
	case AlertWarning:
		return model.ToneWarning
	case AlertCritical, AlertFault:
		return model.ToneDestructive
	}
	return model.ToneSecondary
}

var units = map[model.SensorType]string{
	model.SensorTemperature: "°C",
	model.SensorPressure:    "bar",
	model.SensorVibration:   "mm/s",
	model.SensorLevel:       "%",
	model.SensorFlow:        "L/min",
	model.SensorSpeed:       "RPM",
}

// UnitFor returns the measurement unit for a sensor type, or "" if unknown.
func UnitFor(t model.SensorType) string {
	return units[t]
}
