package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

type createPartRequest struct {
	Name        string           `json:"name" binding:"required,min=2"`
	Code        string           `json:"code" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	Quantity    int              `json:"quantity" binding:"min=0"`
	MinStock    int              `json:"min_stock" binding:"min=0"`
	MaxStock    *int             `json:"max_stock" binding:"omitempty,min=0"`
	Status      model.PartStatus `json:"status" binding:"omitempty,enum"`
	Supplier    *string          `json:"supplier"`
	UnitPrice   *float64         `json:"unit_price" binding:"omitempty,min=0"`
}

type updatePartRequest struct {
	Name        *string           `json:"name" binding:"omitempty,min=2"`
	Code        *string           `json:"code" binding:"omitempty,min=1"`
	Category    *string           `json:"category" binding:"omitempty,min=1"`
	Description *string           `json:"description"`
	Location    *string           `json:"location"`
	Quantity    *int              `json:"quantity" binding:"omitempty,min=0"`
	MinStock    *int              `json:"min_stock" binding:"omitempty,min=0"`
	MaxStock    *int              `json:"max_stock" binding:"omitempty,min=0"`
	Status      *model.PartStatus `json:"status" binding:"omitempty,enum"`
	Supplier    *string           `json:"supplier"`
	UnitPrice   *float64          `json:"unit_price" binding:"omitempty,min=0"`
}

func (r updatePartRequest) changes() store.Changes {
	ch := store.Changes{}
	setIf(ch, "name", r.Name)
	setIf(ch, "code", r.Code)
	setIf(ch, "category", r.Category)
	setIf(ch, "description", r.Description)
	setIf(ch, "location", r.Location)
	setIf(ch, "quantity", r.Quantity)
	setIf(ch, "min_stock", r.MinStock)
	setIf(ch, "max_stock", r.MaxStock)
	setIf(ch, "status", r.Status)
	setIf(ch, "supplier", r.Supplier)
	setIf(ch, "unit_price", r.UnitPrice)
	return ch
}

type updateStockRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// GetParts lists parts, optionally filtered by ?category=.
func (h *Handler) GetParts(c *gin.Context) {
	parts, err := h.store.ListParts(c.Request.Context(), store.PartFilter{Category: c.Query("category")})
	if err != nil {
		h.fail(c, err, actionList, partEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(parts, newPartView))
}

// GetLowStockParts lists the parts that need restocking.
func (h *Handler) GetLowStockParts(c *gin.Context) {
	parts, err := h.store.ListLowStockParts(c.Request.Context())
	if err != nil {
		h.fail(c, err, actionList, partEntity)
		return
	}
	c.JSON(http.StatusOK, mapViews(parts, newPartView))
}

func (h *Handler) GetPart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.store.GetPart(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, actionList, partEntity)
		return
	}
	c.JSON(http.StatusOK, newPartView(*p))
}

func (h *Handler) CreatePart(c *gin.Context) {
	var req createPartRequest
	if !bind(c, &req, actionCreate, partEntity) {
		return
	}
	p := &model.Part{
		Name:        req.Name,
		Code:        req.Code,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		MaxStock:    req.MaxStock,
		Status:      req.Status,
		Supplier:    req.Supplier,
		UnitPrice:   req.UnitPrice,
	}
	if err := h.store.CreatePart(c.Request.Context(), p); err != nil {
		h.fail(c, err, actionCreate, partEntity)
		return
	}
	c.JSON(http.StatusCreated, newPartView(*p))
}

func (h *Handler) UpdatePart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updatePartRequest
	if !bind(c, &req, actionUpdate, partEntity) {
		return
	}
	p, err := h.store.UpdatePart(c.Request.Context(), id, req.changes())
	if err != nil {
		h.fail(c, err, actionUpdate, partEntity)
		return
	}
	c.JSON(http.StatusOK, newPartView(*p))
}

// UpdatePartStock sets the on-hand quantity of a part.
func (h *Handler) UpdatePartStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateStockRequest
	if !bind(c, &req, actionUpdate, stockEntity) {
		return
	}
	p, err := h.store.UpdateStock(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		h.fail(c, err, actionUpdate, stockEntity)
		return
	}
	c.JSON(http.StatusOK, newPartView(*p))
}

func (h *Handler) DeletePart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeletePart(c.Request.Context(), id); err != nil {
		h.fail(c, err, actionDelete, partEntity)
		return
	}
	c.Status(http.StatusNoContent)
}
