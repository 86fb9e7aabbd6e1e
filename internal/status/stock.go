// Package status holds the pure mappings from raw field values to the small
// status labels shown next to parts and sensors.
package status

import "maintenance-backend/internal/model"

// StockStatus classifies a part's inventory level against its minimum stock.
func StockStatus(quantity, minStock int) model.PartStatus {
	switch {
	case quantity <= 0:
		return model.PartOutOfStock
	case quantity <= minStock:
		return model.PartLowStock
	default:
		return model.PartInStock
	}
}

// PartStatusFor re-derives a part's status after a quantity or minimum-stock
// change. Discontinued parts stay discontinued.
func PartStatusFor(current model.PartStatus, quantity, minStock int) model.PartStatus {
	if current == model.PartDiscontinued {
		return current
	}
	return StockStatus(quantity, minStock)
}

// NeedsRestock reports whether a part belongs on the low-stock list.
func NeedsRestock(p model.Part) bool {
	return p.Status == model.PartLowStock || p.Quantity <= p.MinStock
}
