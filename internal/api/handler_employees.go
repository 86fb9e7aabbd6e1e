package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

type createEmployeeRequest struct {
	Name           string               `json:"name" binding:"required,min=2"`
	EmployeeCode   string               `json:"employee_code" binding:"required"`
	Email          string               `json:"email" binding:"required,email"`
	Phone          *string              `json:"phone" binding:"omitempty,min=10"`
	Department     string               `json:"department" binding:"required"`
	Position       string               `json:"position" binding:"required"`
	HireDate       Date                 `json:"hire_date"`
	Status         model.EmployeeStatus `json:"status" binding:"omitempty,enum"`
	Skills         []string             `json:"skills"`
	Certifications []string             `json:"certifications"`
}

type updateEmployeeRequest struct {
	Name           *string               `json:"name" binding:"omitempty,min=2"`
	EmployeeCode   *string               `json:"employee_code" binding:"omitempty,min=1"`
	Email          *string               `json:"email" binding:"omitempty,email"`
	Phone          *string               `json:"phone" binding:"omitempty,min=10"`
	Department     *string               `json:"department" binding:"omitempty,min=1"`
	Position       *string               `json:"position" binding:"omitempty,min=1"`
	HireDate       *Date                 `json:"hire_date"`
	Status         *model.EmployeeStatus `json:"status" binding:"omitempty,enum"`
	Skills         []string              `json:"skills"`
	Certifications []string              `json:"certifications"`
}

func (r updateEmployeeRequest) changes() store.Changes {
	ch := store.Changes{}
	setIf(ch, "name", r.Name)
	setIf(ch, "employee_code", r.EmployeeCode)
	setIf(ch, "email", r.Email)
	setIf(ch, "phone", r.Phone)
	setIf(ch, "department", r.Department)
	setIf(ch, "position", r.Position)
	setDate(ch, "hire_date", r.HireDate)
	setIf(ch, "status", r.Status)
	if r.Skills != nil {
		ch["skills"] = datatypes.NewJSONSlice(r.Skills)
	}
	if r.Certifications != nil {
		ch["certifications"] = datatypes.NewJSONSlice(r.Certifications)
	}
	return ch
}

// GetEmployees lists employees, optionally filtered by ?department=.
func (h *Handler) GetEmployees(c *gin.Context) {
	employees, err := h.store.ListEmployees(c.Request.Context(), store.EmployeeFilter{Department: c.Query("department")})
	if err != nil {
		h.fail(c, err, actionList, employeeEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(employees, newEmployeeView))
}

func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.store.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, actionList, employeeEntity)
		return
	}
	c.JSON(http.StatusOK, newEmployeeView(*e))
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if !bind(c, &req, actionCreate, employeeEntity) {
		return
	}
	if req.HireDate.IsZero() {
		invalid(c, actionCreate, employeeEntity, "Data de admissão é obrigatória")
		return
	}
	e := &model.Employee{
		Name:           req.Name,
		EmployeeCode:   req.EmployeeCode,
		Email:          req.Email,
		Phone:          req.Phone,
		Department:     req.Department,
		Position:       req.Position,
		HireDate:       req.HireDate.Time,
		Status:         req.Status,
		Skills:         datatypes.NewJSONSlice(nonNil(req.Skills)),
		Certifications: datatypes.NewJSONSlice(nonNil(req.Certifications)),
	}
	if err := h.store.CreateEmployee(c.Request.Context(), e); err != nil {
		h.fail(c, err, actionCreate, employeeEntity)
		return
	}
	c.JSON(http.StatusCreated, newEmployeeView(*e))
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateEmployeeRequest
	if !bind(c, &req, actionUpdate, employeeEntity) {
		return
	}
	e, err := h.store.UpdateEmployee(c.Request.Context(), id, req.changes())
	if err != nil {
		h.fail(c, err, actionUpdate, employeeEntity)
		return
	}
	c.JSON(http.StatusOK, newEmployeeView(*e))
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.fail(c, err, actionDelete, employeeEntity)
		return
	}
	c.Status(http.StatusNoContent)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
