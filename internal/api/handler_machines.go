package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

type createMachineRequest struct {
	Name                string              `json:"name" binding:"required,min=2"`
	SerialNumber        string              `json:"serial_number" binding:"required"`
	Manufacturer        *string             `json:"manufacturer"`
	Model               *string             `json:"model"`
	Location            string              `json:"location" binding:"required"`
	Status              model.MachineStatus `json:"status" binding:"omitempty,enum"`
	InstallationDate    *Date               `json:"installation_date"`
	LastMaintenanceDate *Date               `json:"last_maintenance_date"`
	NextMaintenanceDate *Date               `json:"next_maintenance_date"`
	Specifications      datatypes.JSON      `json:"specifications"`
}

type updateMachineRequest struct {
	Name                *string              `json:"name" binding:"omitempty,min=2"`
	SerialNumber        *string              `json:"serial_number" binding:"omitempty,min=1"`
	Manufacturer        *string              `json:"manufacturer"`
	Model               *string              `json:"model"`
	Location            *string              `json:"location" binding:"omitempty,min=1"`
	Status              *model.MachineStatus `json:"status" binding:"omitempty,enum"`
	InstallationDate    *Date                `json:"installation_date"`
	LastMaintenanceDate *Date                `json:"last_maintenance_date"`
	NextMaintenanceDate *Date                `json:"next_maintenance_date"`
	Specifications      datatypes.JSON       `json:"specifications"`
}

func (r updateMachineRequest) changes() store.Changes {
	ch := store.Changes{}
	setIf(ch, "name", r.Name)
	setIf(ch, "serial_number", r.SerialNumber)
	setIf(ch, "manufacturer", r.Manufacturer)
	setIf(ch, "model", r.Model)
	setIf(ch, "location", r.Location)
	setIf(ch, "status", r.Status)
	setDate(ch, "installation_date", r.InstallationDate)
	setDate(ch, "last_maintenance_date", r.LastMaintenanceDate)
	setDate(ch, "next_maintenance_date", r.NextMaintenanceDate)
	if r.Specifications != nil {
		ch["specifications"] = r.Specifications
	}
	return ch
}

// GetMachines lists machines, optionally filtered by ?status=.
func (h *Handler) GetMachines(c *gin.Context) {
	f := store.MachineFilter{Status: model.MachineStatus(c.Query("status"))}
	if f.Status != "" && !f.Status.Valid() {
		invalid(c, actionList, machineEntity, "status inválido")
		return
	}
	machines, err := h.store.ListMachines(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, actionList, machineEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(machines, newMachineView))
}

func (h *Handler) GetMachine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.store.GetMachine(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, actionList, machineEntity)
		return
	}
	c.JSON(http.StatusOK, newMachineView(*m))
}

func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if !bind(c, &req, actionCreate, machineEntity) {
		return
	}
	m := &model.Machine{
		Name:                req.Name,
		SerialNumber:        req.SerialNumber,
		Manufacturer:        req.Manufacturer,
		Model:               req.Model,
		Location:            req.Location,
		Status:              req.Status,
		InstallationDate:    req.InstallationDate.Ptr(),
		LastMaintenanceDate: req.LastMaintenanceDate.Ptr(),
		NextMaintenanceDate: req.NextMaintenanceDate.Ptr(),
		Specifications:      req.Specifications,
	}
	if err := h.store.CreateMachine(c.Request.Context(), m); err != nil {
		h.fail(c, err, actionCreate, machineEntity)
		return
	}
	c.JSON(http.StatusCreated, newMachineView(*m))
}

func (h *Handler) UpdateMachine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateMachineRequest
	if !bind(c, &req, actionUpdate, machineEntity) {
		return
	}
	m, err := h.store.UpdateMachine(c.Request.Context(), id, req.changes())
	if err != nil {
		h.fail(c, err, actionUpdate, machineEntity)
		return
	}
	c.JSON(http.StatusOK, newMachineView(*m))
}

func (h *Handler) DeleteMachine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteMachine(c.Request.Context(), id); err != nil {
		h.fail(c, err, actionDelete, machineEntity)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMachineSensors lists the sensors mounted on a machine.
func (h *Handler) GetMachineSensors(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetMachine(c.Request.Context(), id); err != nil {
		h.fail(c, err, actionList, sensorEntity.missing(machineEntity.notFound))
		return
	}
	sensors, err := h.store.ListSensors(c.Request.Context(), store.SensorFilter{MachineID: &id})
	if err != nil {
		h.fail(c, err, actionList, sensorEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(sensors, newSensorView))
}

// setIf records column = *v when v is set.
func setIf[T any](ch store.Changes, column string, v *T) {
	if v != nil {
		ch[column] = *v
	}
}

func setDate(ch store.Changes, column string, d *Date) {
	if t := d.Ptr(); t != nil {
		ch[column] = *t
	}
}
