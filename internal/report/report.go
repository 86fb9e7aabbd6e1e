// Package report aggregates store rows into the dashboard summary and the
// analytics series shown on the reports page.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/status"
	"maintenance-backend/internal/store"
)

var monthLabels = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// Summary holds the headline counters of the dashboard.
type Summary struct {
	TotalMachines     int                         `json:"total_machines"`
	ActiveMachines    int                         `json:"active_machines"`
	MachinesByStatus  map[model.MachineStatus]int `json:"machines_by_status"`
	PendingWorkOrders int                         `json:"pending_work_orders"`
	PartsInStock      int                         `json:"parts_in_stock"`
	LowStockParts     int                         `json:"low_stock_parts"`
	CriticalAlerts    int                         `json:"critical_alerts"`
}

type MaintenancePoint struct {
	Month      string `json:"month"`
	Label      string `json:"label"`
	Preventive int    `json:"preventiva"`
	Corrective int    `json:"corretiva"`
}

type CostPoint struct {
	Month string  `json:"month"`
	Label string  `json:"label"`
	Cost  float64 `json:"custo"`
}

type CategoryPoint struct {
	Category string `json:"name"`
	Quantity int    `json:"value"`
}

type DowntimePoint struct {
	Machine string  `json:"machine"`
	Hours   float64 `json:"hours"`
}

// Totals are the figures shown on the report cards.
type Totals struct {
	Maintenances  int     `json:"maintenances"`
	Cost          float64 `json:"cost"`
	PartsUsed     int     `json:"parts_used"`
	DowntimeHours float64 `json:"downtime_hours"`
}

// Analytics is the full set of series for the reports page.
type Analytics struct {
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	Maintenance []MaintenancePoint `json:"maintenance"`
	Cost        []CostPoint        `json:"cost"`
	Parts       []CategoryPoint    `json:"parts"`
	Downtime    []DowntimePoint    `json:"downtime"`
	Totals      Totals             `json:"totals"`
}

// Summarize computes the dashboard counters.
func Summarize(data *store.ReportData) Summary {
	sum := Summary{MachinesByStatus: make(map[model.MachineStatus]int, len(model.MachineStatuses))}
	for _, st := range model.MachineStatuses {
		sum.MachinesByStatus[st] = 0
	}
	for _, m := range data.Machines {
		sum.TotalMachines++
		sum.MachinesByStatus[m.Status]++
		if m.Status == model.MachineOperational {
			sum.ActiveMachines++
		}
	}
	for _, w := range data.WorkOrders {
		if w.Status == model.WorkOrderPending {
			sum.PendingWorkOrders++
		}
	}
	for _, p := range data.Parts {
		if p.Status == model.PartInStock {
			sum.PartsInStock++
		}
		if p.Status != model.PartDiscontinued && status.NeedsRestock(p) {
			sum.LowStockParts++
		}
	}
	for _, s := range data.Sensors {
		switch status.SensorAlertFor(s) {
		case status.AlertCritical, status.AlertFault:
			sum.CriticalAlerts++
		}
	}
	return sum
}

// WindowStart returns the first instant of the oldest month in a window of
// months ending with the month of now.
func WindowStart(now time.Time, months int) time.Time {
	if months < 1 {
		months = 1
	}
	return time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, now.Location())
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Analyze builds the monthly and categorical series over work orders in the
// window of months ending with the month of now.
func Analyze(data *store.ReportData, now time.Time, months int) Analytics {
	from := WindowStart(now, months)
	a := Analytics{From: from, To: now}

	index := make(map[string]int)
	for t := from; !t.After(now); t = t.AddDate(0, 1, 0) {
		key := monthKey(t)
		index[key] = len(a.Maintenance)
		label := monthLabels[t.Month()-1]
		a.Maintenance = append(a.Maintenance, MaintenancePoint{Month: key, Label: label})
		a.Cost = append(a.Cost, CostPoint{Month: key, Label: label})
	}

	// Maintenance counts by scheduled date, cost by completion date, and parts
	// and downtime by the latest date the order saw activity.
	partsByCategory := make(map[string]int)
	downtime := make(map[uuid.UUID]*DowntimePoint)
	for _, w := range data.WorkOrders {
		when := w.CreatedAt
		if w.ScheduledDate != nil {
			when = *w.ScheduledDate
		}
		if i, ok := index[monthKey(when.In(now.Location()))]; ok && w.Status != model.WorkOrderCancelled {
			a.Totals.Maintenances++
			if isCorrective(w.MaintenanceType) {
				a.Maintenance[i].Corrective++
			} else {
				a.Maintenance[i].Preventive++
			}
		}

		if w.Status == model.WorkOrderCompleted && w.CompletedAt != nil {
			if i, ok := index[monthKey(w.CompletedAt.In(now.Location()))]; ok {
				cost := partsCost(w)
				a.Cost[i].Cost += cost
				a.Totals.Cost += cost
			}
		}

		if _, ok := index[monthKey(activityDate(w).In(now.Location()))]; !ok {
			continue
		}
		for _, line := range w.Parts {
			if line.Part == nil {
				continue
			}
			partsByCategory[line.Part.Category] += line.QuantityUsed
			a.Totals.PartsUsed += line.QuantityUsed
		}

		if isCorrective(w.MaintenanceType) && w.ActualHours != nil {
			d, ok := downtime[w.MachineID]
			if !ok {
				d = &DowntimePoint{Machine: w.MachineID.String()}
				if w.Machine != nil {
					d.Machine = w.Machine.Name
				}
				downtime[w.MachineID] = d
			}
			d.Hours += *w.ActualHours
			a.Totals.DowntimeHours += *w.ActualHours
		}
	}

	for cat, qty := range partsByCategory {
		a.Parts = append(a.Parts, CategoryPoint{Category: cat, Quantity: qty})
	}
	sort.Slice(a.Parts, func(i, j int) bool {
		if a.Parts[i].Quantity != a.Parts[j].Quantity {
			return a.Parts[i].Quantity > a.Parts[j].Quantity
		}
		return a.Parts[i].Category < a.Parts[j].Category
	})

	for _, d := range downtime {
		a.Downtime = append(a.Downtime, *d)
	}
	sort.Slice(a.Downtime, func(i, j int) bool {
		if a.Downtime[i].Hours != a.Downtime[j].Hours {
			return a.Downtime[i].Hours > a.Downtime[j].Hours
		}
		return a.Downtime[i].Machine < a.Downtime[j].Machine
	})
	return a
}

// activityDate is when an order was completed, else scheduled, else created.
func activityDate(w model.WorkOrder) time.Time {
	switch {
	case w.CompletedAt != nil:
		return *w.CompletedAt
	case w.ScheduledDate != nil:
		return *w.ScheduledDate
	}
	return w.CreatedAt
}

// isCorrective groups emergency work with corrective work; predictive work
// counts as preventive.
func isCorrective(t model.MaintenanceType) bool {
	return t == model.MaintenanceCorrective || t == model.MaintenanceEmergency
}

// partsCost sums quantity times unit price over the parts of a work order.
// Parts without a price contribute nothing.
func partsCost(w model.WorkOrder) float64 {
	var total float64
	for _, line := range w.Parts {
		if line.Part == nil || line.Part.UnitPrice == nil {
			continue
		}
		total += float64(line.QuantityUsed) * *line.Part.UnitPrice
	}
	return total
}
