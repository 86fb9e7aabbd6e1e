package model

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&Machine{},
		&Part{},
		&Sensor{},
		&SensorReading{},
		&Employee{},
		&WorkOrder{},
		&WorkOrderPart{},
		&PushSubscription{},
	}
}
