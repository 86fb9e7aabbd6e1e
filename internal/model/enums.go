package model

// Tone is the badge colour family a status is rendered with.
type Tone string

const (
	ToneSuccess     Tone = "success"
	ToneWarning     Tone = "warning"
	ToneDestructive Tone = "destructive"
	TonePrimary     Tone = "primary"
	ToneSecondary   Tone = "secondary"
)

// MachineStatus is the operating state of a machine.
type MachineStatus string

const (
	MachineOperational MachineStatus = "operational"
	MachineMaintenance MachineStatus = "maintenance"
	MachineStopped     MachineStatus = "stopped"
	MachineBroken      MachineStatus = "broken"
)

// MachineStatuses lists every machine status in display order.
var MachineStatuses = []MachineStatus{MachineOperational, MachineMaintenance, MachineStopped, MachineBroken}

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineOperational, MachineMaintenance, MachineStopped, MachineBroken:
		return true
	}
	return false
}

func (s MachineStatus) Label() string {
	switch s {
	case MachineOperational:
		return "Ativa"
	case MachineMaintenance:
		return "Manutenção"
	case MachineStopped:
		return "Inativa"
	case MachineBroken:
		return "Crítica"
	}
	return string(s)
}

func (s MachineStatus) Tone() Tone {
	switch s {
	case MachineOperational:
		return ToneSuccess
	case MachineMaintenance:
		return ToneWarning
	case MachineBroken:
		return ToneDestructive
	}
	return ToneSecondary
}

// PartStatus summarizes inventory sufficiency for a part.
type PartStatus string

const (
	PartInStock      PartStatus = "in_stock"
	PartLowStock     PartStatus = "low_stock"
	PartOutOfStock   PartStatus = "out_of_stock"
	PartDiscontinued PartStatus = "discontinued"
)

func (s PartStatus) Valid() bool {
	switch s {
	case PartInStock, PartLowStock, PartOutOfStock, PartDiscontinued:
		return true
	}
	return false
}

func (s PartStatus) Label() string {
	switch s {
	case PartInStock:
		return "Em Estoque"
	case PartLowStock:
		return "Baixo Estoque"
	case PartOutOfStock:
		return "Sem Estoque"
	case PartDiscontinued:
		return "Descontinuada"
	}
	return string(s)
}

func (s PartStatus) Tone() Tone {
	switch s {
	case PartInStock:
		return ToneSuccess
	case PartLowStock:
		return ToneWarning
	case PartOutOfStock:
		return ToneDestructive
	}
	return ToneSecondary
}

// SensorType is the physical quantity a sensor measures.
type SensorType string

const (
	SensorTemperature SensorType = "temperature"
	SensorPressure    SensorType = "pressure"
	SensorVibration   SensorType = "vibration"
	SensorFlow        SensorType = "flow"
	SensorLevel       SensorType = "level"
	SensorSpeed       SensorType = "speed"
)

// SensorTypes lists every sensor type.
var SensorTypes = []SensorType{SensorTemperature, SensorPressure, SensorVibration, SensorFlow, SensorLevel, SensorSpeed}

func (t SensorType) Valid() bool {
	switch t {
	case SensorTemperature, SensorPressure, SensorVibration, SensorFlow, SensorLevel, SensorSpeed:
		return true
	}
	return false
}

func (t SensorType) Label() string {
	switch t {
	case SensorTemperature:
		return "Temperatura"
	case SensorPressure:
		return "Pressão"
	case SensorVibration:
		return "Vibração"
	case SensorFlow:
		return "Vazão"
	case SensorLevel:
		return "Nível"
	case SensorSpeed:
		return "Velocidade"
	}
	return string(t)
}

// SensorStatus is the operational state of a sensor. It is set by operators,
// never derived from readings.
type SensorStatus string

const (
	SensorActive      SensorStatus = "active"
	SensorInactive    SensorStatus = "inactive"
	SensorError       SensorStatus = "error"
	SensorCalibration SensorStatus = "calibration"
)

func (s SensorStatus) Valid() bool {
	switch s {
	case SensorActive, SensorInactive, SensorError, SensorCalibration:
		return true
	}
	return false
}

func (s SensorStatus) Label() string {
	switch s {
	case SensorActive:
		return "Ativo"
	case SensorInactive:
		return "Inativo"
	case SensorError:
		return "Falha"
	case SensorCalibration:
		return "Calibração"
	}
	return string(s)
}

// EmployeeStatus is the employment state of an employee.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeInactive   EmployeeStatus = "inactive"
	EmployeeVacation   EmployeeStatus = "vacation"
	EmployeeTerminated EmployeeStatus = "terminated"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeVacation, EmployeeTerminated:
		return true
	}
	return false
}

func (s EmployeeStatus) Label() string {
	switch s {
	case EmployeeActive:
		return "Ativo"
	case EmployeeInactive:
		return "Inativo"
	case EmployeeVacation:
		return "Férias"
	case EmployeeTerminated:
		return "Desligado"
	}
	return string(s)
}

// MaintenanceType classifies the work a work order performs.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceCorrective MaintenanceType = "corrective"
	MaintenancePredictive MaintenanceType = "predictive"
	MaintenanceEmergency  MaintenanceType = "emergency"
)

func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenancePreventive, MaintenanceCorrective, MaintenancePredictive, MaintenanceEmergency:
		return true
	}
	return false
}

func (t MaintenanceType) Label() string {
	switch t {
	case MaintenancePreventive:
		return "Preventiva"
	case MaintenanceCorrective:
		return "Corretiva"
	case MaintenancePredictive:
		return "Preditiva"
	case MaintenanceEmergency:
		return "Emergencial"
	}
	return string(t)
}

// Priority is the urgency of a work order.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Baixa"
	case PriorityMedium:
		return "Média"
	case PriorityHigh:
		return "Alta"
	case PriorityCritical:
		return "Crítica"
	}
	return string(p)
}

func (p Priority) Tone() Tone {
	switch p {
	case PriorityLow:
		return ToneSuccess
	case PriorityMedium, PriorityHigh:
		return ToneWarning
	case PriorityCritical:
		return ToneDestructive
	}
	return ToneSecondary
}

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "pending"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderCompleted  WorkOrderStatus = "completed"
	WorkOrderCancelled  WorkOrderStatus = "cancelled"
)

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderPending, WorkOrderInProgress, WorkOrderCompleted, WorkOrderCancelled:
		return true
	}
	return false
}

func (s WorkOrderStatus) Label() string {
	switch s {
	case WorkOrderPending:
		return "Aberta"
	case WorkOrderInProgress:
		return "Em Andamento"
	case WorkOrderCompleted:
		return "Concluída"
	case WorkOrderCancelled:
		return "Cancelada"
	}
	return string(s)
}

func (s WorkOrderStatus) Tone() Tone {
	switch s {
	case WorkOrderPending:
		return TonePrimary
	case WorkOrderInProgress:
		return ToneWarning
	case WorkOrderCompleted:
		return ToneSuccess
	case WorkOrderCancelled:
		return ToneDestructive
	}
	return ToneSecondary
}
