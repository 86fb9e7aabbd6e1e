package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"maintenance-backend/internal/alert"
	"maintenance-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store        store.Store
	webpush      *webpush.Options
	alerts       alert.Sink
	reportMonths int
	log          *zap.Logger
	now          func() time.Time
}

// NewHandler creates a new API handler. alerts receives events for readings
// posted over HTTP and may be nil.
func NewHandler(s store.Store, webpushOptions *webpush.Options, alerts alert.Sink, reportMonths int, log *zap.Logger) *Handler {
	return &Handler{
		store:        s,
		webpush:      webpushOptions,
		alerts:       alerts,
		reportMonths: reportMonths,
		log:          log,
		now:          time.Now,
	}
}

// entity names a resource in user-facing messages.
type entity struct {
	name     string
	notFound string
}

var (
	machineEntity   = entity{name: "máquina", notFound: "Máquina não encontrada"}
	partEntity      = entity{name: "peça", notFound: "Peça não encontrada"}
	stockEntity     = entity{name: "estoque", notFound: "Peça não encontrada"}
	sensorEntity    = entity{name: "sensor", notFound: "Sensor não encontrado"}
	readingEntity   = entity{name: "leitura", notFound: "Sensor não encontrado"}
	employeeEntity  = entity{name: "funcionário", notFound: "Funcionário não encontrado"}
	workOrderEntity = entity{name: "ordem de serviço", notFound: "Ordem de serviço não encontrada"}
	orderPartEntity = entity{name: "peça da ordem de serviço", notFound: "Peça não encontrada na ordem de serviço"}
	reportEntity    = entity{name: "relatório"}
	subscriptionEnt = entity{name: "assinatura", notFound: "Assinatura não encontrada"}
)

// missing swaps the not-found message, for operations that first look up a
// related row.
func (e entity) missing(msg string) entity {
	e.notFound = msg
	return e
}

const (
	actionList   = "carregar"
	actionCreate = "criar"
	actionUpdate = "atualizar"
	actionDelete = "remover"
)

// fail maps a store error to a status code and the "Erro ao <action> <entity>"
// message shown to the user.
func (h *Handler) fail(c *gin.Context, err error, action string, e entity) {
	msg := "Erro ao " + action + " " + e.name
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": e.notFound})
	case errors.Is(err, store.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": msg, "details": "Estoque insuficiente"})
	case errors.Is(err, store.ErrWorkOrderClosed):
		c.JSON(http.StatusConflict, gin.H{"error": msg, "details": "Ordem de serviço já encerrada"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": msg, "details": "Registro duplicado"})
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": "Referência inválida"})
	default:
		h.log.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// invalid rejects a request whose body or parameters did not validate.
func invalid(c *gin.Context, action string, e entity, details string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Erro ao " + action + " " + e.name, "details": details})
}

// pathID parses the :name path parameter as a UUID, answering 400 when it
// is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return uuid.Nil, false
	}
	return id, true
}

// bind decodes and validates the JSON body into req.
func bind(c *gin.Context, req any, action string, e entity) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		invalid(c, action, e, err.Error())
		return false
	}
	return true
}
