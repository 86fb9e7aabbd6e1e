package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary     = "Resumo"
	SheetMaintenance = "Manutenções"
	SheetCost        = "Custos"
	SheetParts       = "Peças"
	SheetDowntime    = "Inatividade"
)

// table is one worksheet: a header row followed by data rows.
type table struct {
	sheet  string
	header []string
	rows   [][]any
	widths []float64
}

// Export renders the summary and analytics as an xlsx workbook, one sheet
// per series.
func Export(sum Summary, a Analytics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, t := range tables(sum, a) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", t.sheet, err)
		}
		if err := writeTable(f, t, headerStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, t table, headerStyle int) error {
	for col, h := range t.header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(t.sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(t.sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	for r, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(t.sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, t.sheet, err)
		}
	}
	for col, w := range t.widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.sheet, name, name, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func tables(sum Summary, a Analytics) []table {
	summary := table{
		sheet:  SheetSummary,
		header: []string{"Indicador", "Valor"},
		widths: []float64{30, 15},
		rows: [][]any{
			{"Máquinas", sum.TotalMachines},
			{"Máquinas ativas", sum.ActiveMachines},
			{"Ordens pendentes", sum.PendingWorkOrders},
			{"Peças em estoque", sum.PartsInStock},
			{"Peças com estoque baixo", sum.LowStockParts},
			{"Alertas críticos", sum.CriticalAlerts},
			{"Manutenções no período", a.Totals.Maintenances},
			{"Custo no período (R$)", a.Totals.Cost},
			{"Peças consumidas", a.Totals.PartsUsed},
			{"Horas de inatividade", a.Totals.DowntimeHours},
		},
	}

	maintenance := table{sheet: SheetMaintenance, header: []string{"Mês", "Preventiva", "Corretiva"}, widths: []float64{12, 14, 14}}
	for _, p := range a.Maintenance {
		maintenance.rows = append(maintenance.rows, []any{p.Month, p.Preventive, p.Corrective})
	}
	cost := table{sheet: SheetCost, header: []string{"Mês", "Custo (R$)"}, widths: []float64{12, 16}}
	for _, p := range a.Cost {
		cost.rows = append(cost.rows, []any{p.Month, p.Cost})
	}
	parts := table{sheet: SheetParts, header: []string{"Categoria", "Quantidade"}, widths: []float64{24, 14}}
	for _, p := range a.Parts {
		parts.rows = append(parts.rows, []any{p.Category, p.Quantity})
	}
	downtime := table{sheet: SheetDowntime, header: []string{"Máquina", "Horas"}, widths: []float64{24, 12}}
	for _, p := range a.Downtime {
		downtime.rows = append(downtime.rows, []any{p.Machine, p.Hours})
	}
	return []table{summary, maintenance, cost, parts, downtime}
}
