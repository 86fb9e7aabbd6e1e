package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"maintenance-backend/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetReportSummary returns the dashboard counters over all rows.
func (h *Handler) GetReportSummary(c *gin.Context) {
	data, err := h.store.ReportData(c.Request.Context(), time.Time{})
	if err != nil {
		h.fail(c, err, actionList, reportEntity)
		return
	}
	c.JSON(http.StatusOK, report.Summarize(data))
}

// GetReportAnalytics returns the chart series for the last ?months= months.
func (h *Handler) GetReportAnalytics(c *gin.Context) {
	now := h.now().UTC()
	months := h.months(c)
	data, err := h.store.ReportData(c.Request.Context(), report.WindowStart(now, months))
	if err != nil {
		h.fail(c, err, actionList, reportEntity)
		return
	}
	c.JSON(http.StatusOK, report.Analyze(data, now, months))
}

// ExportReport downloads the summary and analytics as an xlsx workbook.
func (h *Handler) ExportReport(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now().UTC()
	months := h.months(c)

	all, err := h.store.ReportData(ctx, time.Time{})
	if err != nil {
		h.fail(c, err, actionList, reportEntity)
		return
	}
	content, err := report.Export(report.Summarize(all), report.Analyze(all, now, months))
	if err != nil {
		h.fail(c, err, actionList, reportEntity)
		return
	}

	filename := fmt.Sprintf("relatorio_manutencao_%s.xlsx", now.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}

// months reads ?months=, defaulting to the configured window.
func (h *Handler) months(c *gin.Context) int {
	if n, err := strconv.Atoi(c.Query("months")); err == nil && n > 0 && n <= 36 {
		return n
	}
	if h.reportMonths > 0 {
		return h.reportMonths
	}
	return 6
}
