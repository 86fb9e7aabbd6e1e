package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/parse"
	"maintenance-backend/internal/store"
)

type createWorkOrderRequest struct {
	OrderNumber     string                `json:"order_number"`
	Title           string                `json:"title" binding:"required,min=2"`
	Description     string                `json:"description" binding:"required,min=10"`
	MachineID       uuid.UUID             `json:"machine_id" binding:"required"`
	AssignedTo      *uuid.UUID            `json:"assigned_to"`
	CreatedBy       *uuid.UUID            `json:"created_by"`
	MaintenanceType model.MaintenanceType `json:"maintenance_type" binding:"required,enum"`
	Priority        model.Priority        `json:"priority" binding:"omitempty,enum"`
	Status          model.WorkOrderStatus `json:"status" binding:"omitempty,enum"`
	ScheduledDate   *Date                 `json:"scheduled_date"`
	EstimatedHours  *float64              `json:"estimated_hours" binding:"omitempty,gt=0"`
	Notes           *string               `json:"notes"`
}

type updateWorkOrderRequest struct {
	Title           *string                `json:"title" binding:"omitempty,min=2"`
	Description     *string                `json:"description" binding:"omitempty,min=10"`
	MachineID       *uuid.UUID             `json:"machine_id"`
	AssignedTo      *uuid.UUID             `json:"assigned_to"`
	MaintenanceType *model.MaintenanceType `json:"maintenance_type" binding:"omitempty,enum"`
	Priority        *model.Priority        `json:"priority" binding:"omitempty,enum"`
	Status          *model.WorkOrderStatus `json:"status" binding:"omitempty,enum"`
	ScheduledDate   *Date                  `json:"scheduled_date"`
	StartedAt       *Date                  `json:"started_at"`
	CompletedAt     *Date                  `json:"completed_at"`
	EstimatedHours  *float64               `json:"estimated_hours" binding:"omitempty,gt=0"`
	ActualHours     *float64               `json:"actual_hours" binding:"omitempty,min=0"`
	Notes           *string                `json:"notes"`
}

func (r updateWorkOrderRequest) changes() store.Changes {
	ch := store.Changes{}
	setIf(ch, "title", r.Title)
	setIf(ch, "description", r.Description)
	setIf(ch, "machine_id", r.MachineID)
	setIf(ch, "assigned_to", r.AssignedTo)
	setIf(ch, "maintenance_type", r.MaintenanceType)
	setIf(ch, "priority", r.Priority)
	setIf(ch, "status", r.Status)
	setDate(ch, "scheduled_date", r.ScheduledDate)
	setDate(ch, "started_at", r.StartedAt)
	setDate(ch, "completed_at", r.CompletedAt)
	setIf(ch, "estimated_hours", r.EstimatedHours)
	setIf(ch, "actual_hours", r.ActualHours)
	setIf(ch, "notes", r.Notes)
	return ch
}

type addWorkOrderPartRequest struct {
	PartID   uuid.UUID `json:"part_id" binding:"required"`
	Quantity int       `json:"quantity_used" binding:"required,gt=0"`
}

type progressRequest struct {
	HoursWorked float64 `json:"hours_worked" binding:"required,gt=0"`
	Notes       string  `json:"notes" binding:"required,min=10"`
	Completed   bool    `json:"completed"`
}

// GetWorkOrders lists work orders, optionally filtered by ?status=.
func (h *Handler) GetWorkOrders(c *gin.Context) {
	f := store.WorkOrderFilter{Status: model.WorkOrderStatus(c.Query("status"))}
	if f.Status != "" && !f.Status.Valid() {
		invalid(c, actionList, workOrderEntity, "status inválido")
		return
	}
	orders, err := h.store.ListWorkOrders(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, actionList, workOrderEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(orders, newWorkOrderView))
}

// GetPendingWorkOrders lists open work orders, most urgent first.
func (h *Handler) GetPendingWorkOrders(c *gin.Context) {
	orders, err := h.store.ListPendingWorkOrders(c.Request.Context())
	if err != nil {
		h.fail(c, err, actionList, workOrderEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(orders, newWorkOrderView))
}

func (h *Handler) GetWorkOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	w, err := h.store.GetWorkOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, actionList, workOrderEntity)
		return
	}
	c.JSON(http.StatusOK, newWorkOrderView(*w))
}

func (h *Handler) CreateWorkOrder(c *gin.Context) {
	var req createWorkOrderRequest
	if !bind(c, &req, actionCreate, workOrderEntity) {
		return
	}
	orderNumber := ""
	if req.OrderNumber != "" {
		n, err := parse.ParseOrderNumber(req.OrderNumber)
		if err != nil {
			invalid(c, actionCreate, workOrderEntity, "Número da ordem inválido")
			return
		}
		orderNumber = n.String()
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetMachine(ctx, req.MachineID); err != nil {
		h.fail(c, err, actionCreate, workOrderEntity.missing(machineEntity.notFound))
		return
	}
	w := &model.WorkOrder{
		OrderNumber:     orderNumber,
		Title:           req.Title,
		Description:     req.Description,
		MachineID:       req.MachineID,
		AssignedTo:      req.AssignedTo,
		CreatedBy:       req.CreatedBy,
		MaintenanceType: req.MaintenanceType,
		Priority:        req.Priority,
		Status:          req.Status,
		ScheduledDate:   req.ScheduledDate.Ptr(),
		EstimatedHours:  req.EstimatedHours,
		Notes:           req.Notes,
	}
	if err := h.store.CreateWorkOrder(ctx, w); err != nil {
		h.fail(c, err, actionCreate, workOrderEntity)
		return
	}
	created, err := h.store.GetWorkOrder(ctx, w.ID)
	if err != nil {
		h.fail(c, err, actionCreate, workOrderEntity)
		return
	}
	c.JSON(http.StatusCreated, newWorkOrderView(*created))
}

func (h *Handler) UpdateWorkOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateWorkOrderRequest
	if !bind(c, &req, actionUpdate, workOrderEntity) {
		return
	}
	w, err := h.store.UpdateWorkOrder(c.Request.Context(), id, req.changes())
	if err != nil {
		h.fail(c, err, actionUpdate, workOrderEntity)
		return
	}
	c.JSON(http.StatusOK, newWorkOrderView(*w))
}

func (h *Handler) DeleteWorkOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteWorkOrder(c.Request.Context(), id); err != nil {
		h.fail(c, err, actionDelete, workOrderEntity)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddWorkOrderPart books parts against a work order, taking them out of stock.
func (h *Handler) AddWorkOrderPart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addWorkOrderPartRequest
	if !bind(c, &req, actionCreate, orderPartEntity) {
		return
	}
	line, err := h.store.AddWorkOrderPart(c.Request.Context(), id, req.PartID, req.Quantity)
	if err != nil {
		h.fail(c, err, actionCreate, orderPartEntity)
		return
	}
	c.JSON(http.StatusCreated, line)
}

// RemoveWorkOrderPart drops a part from a work order and returns it to stock.
func (h *Handler) RemoveWorkOrderPart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	partID, ok := pathID(c, "part_id")
	if !ok {
		return
	}
	if err := h.store.RemoveWorkOrderPart(c.Request.Context(), id, partID); err != nil {
		h.fail(c, err, actionDelete, orderPartEntity)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordWorkOrderProgress logs hours and notes and advances the order's status.
func (h *Handler) RecordWorkOrderProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req progressRequest
	if !bind(c, &req, actionUpdate, workOrderEntity) {
		return
	}
	w, err := h.store.RecordProgress(c.Request.Context(), id, store.Progress{
		HoursWorked: req.HoursWorked,
		Notes:       req.Notes,
		Completed:   req.Completed,
		At:          h.now().UTC(),
	})
	if err != nil {
		h.fail(c, err, actionUpdate, workOrderEntity)
		return
	}
	c.JSON(http.StatusOK, newWorkOrderView(*w))
}
