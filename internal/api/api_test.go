package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-backend/config"
	"maintenance-backend/internal/alert"
	"maintenance-backend/internal/db"
	"maintenance-backend/internal/mw"
	"maintenance-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var reportNow = time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

type recordSink struct {
	mu     sync.Mutex
	events []alert.Event
}

func (s *recordSink) Publish(_ context.Context, ev alert.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordSink) Events() []alert.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]alert.Event(nil), s.events...)
}

type testServer struct {
	router  *gin.Engine
	handler *Handler
	store   store.Store
	sink    *recordSink
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)

	s := store.NewGormStore(gormDB)
	sink := &recordSink{}
	h := NewHandler(s, nil, sink, 6, zap.NewNop())
	h.now = func() time.Time { return reportNow }

	r := NewRouter(h, config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTL:        time.Minute,
	}, zap.NewNop())
	return &testServer{router: r, handler: h, store: s, sink: sink}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type object = map[string]any

func (ts *testServer) createMachine(t *testing.T, name string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/machines", object{
		"name":          name,
		"serial_number": "SN-" + name,
		"location":      "Linha 1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[object](t, w)["id"].(string)
}

func (ts *testServer) createPart(t *testing.T, code string, qty, min int) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/parts", object{
		"name":       "Rolamento " + code,
		"code":       code,
		"category":   "Rolamentos",
		"quantity":   qty,
		"min_stock":  min,
		"unit_price": 25.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[object](t, w)["id"].(string)
}

func (ts *testServer) createSensor(t *testing.T, machineID, code string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/sensors", object{
		"machine_id":    machineID,
		"name":          "Temperatura do motor",
		"sensor_code":   code,
		"type":          "temperature",
		"min_threshold": 10,
		"max_threshold": 200,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[object](t, w)["id"].(string)
}

func (ts *testServer) createWorkOrder(t *testing.T, machineID string, extra object) object {
	t.Helper()
	body := object{
		"title":            "Troca de rolamento",
		"description":      "Substituir o rolamento do eixo principal",
		"machine_id":       machineID,
		"maintenance_type": "corrective",
	}
	for k, v := range extra {
		body[k] = v
	}
	w := ts.do(t, http.MethodPost, "/api/work-orders", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[object](t, w)
}

func TestMachines_CRUD(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createMachine(t, "CNC-001")

	w := ts.do(t, http.MethodGet, "/api/machines/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[object](t, w)
	assert.Equal(t, "CNC-001", got["name"])
	assert.Equal(t, "operational", got["status"])
	assert.Equal(t, "Ativa", got["status_label"])
	assert.Equal(t, "success", got["tone"])

	w = ts.do(t, http.MethodPut, "/api/machines/"+id, object{"status": "broken", "location": "Linha 2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = decode[object](t, w)
	assert.Equal(t, "broken", got["status"])
	assert.Equal(t, "Crítica", got["status_label"])
	assert.Equal(t, "Linha 2", got["location"])
	assert.Equal(t, "CNC-001", got["name"])

	w = ts.do(t, http.MethodGet, "/api/machines?status=broken", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]object](t, w), 1)

	w = ts.do(t, http.MethodDelete, "/api/machines/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/machines/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Máquina não encontrada"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/machines/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMachines_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   string
	}{
		{"short name", http.MethodPost, "/api/machines", object{"name": "A", "serial_number": "SN", "location": "L"}, "Erro ao criar máquina"},
		{"missing location", http.MethodPost, "/api/machines", object{"name": "Prensa", "serial_number": "SN"}, "Erro ao criar máquina"},
		{"unknown status", http.MethodPost, "/api/machines", object{"name": "Prensa", "serial_number": "SN", "location": "L", "status": "flying"}, "Erro ao criar máquina"},
		{"bad date", http.MethodPost, "/api/machines", object{"name": "Prensa", "serial_number": "SN", "location": "L", "installation_date": "ontem"}, "Erro ao criar máquina"},
		{"status filter", http.MethodGet, "/api/machines?status=flying", nil, "Erro ao carregar máquina"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode[object](t, w)["error"])
		})
	}

	w := ts.do(t, http.MethodGet, "/api/machines/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"ID inválido"}`, w.Body.String())
}

func TestMachines_ListCachedUntilWrite(t *testing.T) {
	ts := newTestServer(t)
	ts.createMachine(t, "CNC-001")

	w := ts.do(t, http.MethodGet, "/api/machines", nil)
	assert.Equal(t, "MISS", w.Header().Get(mw.CacheHeader))
	w = ts.do(t, http.MethodGet, "/api/machines", nil)
	assert.Equal(t, "HIT", w.Header().Get(mw.CacheHeader))
	assert.Len(t, decode[[]object](t, w), 1)

	ts.createMachine(t, "CNC-002")

	w = ts.do(t, http.MethodGet, "/api/machines", nil)
	assert.Equal(t, "MISS", w.Header().Get(mw.CacheHeader))
	assert.Len(t, decode[[]object](t, w), 2)
}

func TestParts_StockStatus(t *testing.T) {
	ts := newTestServer(t)
	low := ts.createPart(t, "ROL-001", 3, 5)
	ts.createPart(t, "ROL-002", 20, 5)

	w := ts.do(t, http.MethodGet, "/api/parts/"+low, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[object](t, w)
	assert.Equal(t, "low_stock", got["status"])
	assert.Equal(t, "Baixo Estoque", got["status_label"])
	assert.Equal(t, true, got["needs_restock"])

	w = ts.do(t, http.MethodGet, "/api/parts/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lows := decode[[]object](t, w)
	require.Len(t, lows, 1)
	assert.Equal(t, "ROL-001", lows[0]["code"])

	steps := []struct {
		qty   int
		want  string
		label string
	}{
		{0, "out_of_stock", "Sem Estoque"},
		{5, "low_stock", "Baixo Estoque"},
		{6, "in_stock", "Em Estoque"},
	}
	for _, s := range steps {
		w = ts.do(t, http.MethodPatch, "/api/parts/"+low+"/stock", object{"quantity": s.qty})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got = decode[object](t, w)
		assert.Equal(t, s.want, got["status"], "quantity %d", s.qty)
		assert.Equal(t, s.label, got["status_label"], "quantity %d", s.qty)
	}

	w = ts.do(t, http.MethodPatch, "/api/parts/"+low+"/stock", object{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro ao atualizar estoque", decode[object](t, w)["error"])

	w = ts.do(t, http.MethodPatch, "/api/parts/"+low+"/stock", object{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/parts?category=Rolamentos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]object](t, w), 2)

	w = ts.do(t, http.MethodDelete, "/api/parts/"+low, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodPatch, "/api/parts/"+low+"/stock", object{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Peça não encontrada"}`, w.Body.String())
}

func TestSensors_Validation(t *testing.T) {
	ts := newTestServer(t)
	machineID := ts.createMachine(t, "CNC-001")

	w := ts.do(t, http.MethodPost, "/api/sensors", object{
		"machine_id": machineID, "name": "Pressão", "sensor_code": "PRS-1", "type": "pressure",
		"min_threshold": 50, "max_threshold": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Erro ao criar sensor","details":"Limite mínimo deve ser menor que o limite máximo"}`, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/sensors", object{
		"machine_id": uuid.NewString(), "name": "Pressão", "sensor_code": "PRS-1", "type": "pressure",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Máquina não encontrada"}`, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/sensors", object{
		"machine_id": machineID, "name": "Pressão", "sensor_code": "PRS-1", "type": "humidity",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := ts.createSensor(t, machineID, "TMP-1")
	w = ts.do(t, http.MethodPut, "/api/sensors/"+id, object{"min_threshold": 250})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, thresholdsMessage, decode[object](t, w)["details"])

	w = ts.do(t, http.MethodPut, "/api/sensors/"+id, object{"min_threshold": 20, "status": "calibration"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[object](t, w)
	assert.Equal(t, 20.0, got["min_threshold"])
	assert.Equal(t, "calibration", got["status"])
}

func TestSensors_ReadingsAndAlerts(t *testing.T) {
	ts := newTestServer(t)
	machineID := ts.createMachine(t, "CNC-001")
	id := ts.createSensor(t, machineID, "TMP-1")

	w := ts.do(t, http.MethodGet, "/api/sensors/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[object](t, w)
	assert.Equal(t, "°C", got["unit"])
	assert.Equal(t, "normal", got["alert_level"])
	assert.Equal(t, "CNC-001", got["machine"].(object)["name"])

	w = ts.do(t, http.MethodPost, "/api/sensors/"+id+"/readings", object{"value": 100})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "normal", decode[object](t, w)["alert_level"])
	assert.Empty(t, ts.sink.Events())

	w = ts.do(t, http.MethodPost, "/api/sensors/"+id+"/readings", object{"value": 185, "notes": "pico"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got = decode[object](t, w)
	assert.Equal(t, "warning", got["alert_level"])
	assert.Equal(t, "Alerta", got["alert_label"])
	assert.Equal(t, true, got["reading"].(object)["alert_triggered"])
	assert.Equal(t, 185.0, got["sensor"].(object)["current_value"])

	events := ts.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "TMP-1", events[0].SensorCode)
	assert.Equal(t, "CNC-001", events[0].MachineName)
	assert.Equal(t, 185.0, events[0].Value)

	w = ts.do(t, http.MethodPost, "/api/sensors/"+id+"/readings", object{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro ao criar leitura", decode[object](t, w)["error"])

	w = ts.do(t, http.MethodPost, "/api/sensors/"+uuid.NewString()+"/readings", object{"value": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Sensor não encontrado"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/sensors/"+id+"/readings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	readings := decode[[]object](t, w)
	require.Len(t, readings, 2)
	assert.Equal(t, 185.0, readings[0]["value"])
	assert.Equal(t, "warning", readings[0]["alert_level"])

	w = ts.do(t, http.MethodGet, "/api/sensors/"+id+"/readings?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]object](t, w), 1)

	w = ts.do(t, http.MethodGet, "/api/sensors/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	alerts := decode[[]object](t, w)
	require.Len(t, alerts, 1)
	assert.Equal(t, "pico", alerts[0]["notes"])

	w = ts.do(t, http.MethodGet, "/api/sensors/readings/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]object](t, w), 2)

	w = ts.do(t, http.MethodGet, "/api/machines/"+machineID+"/sensors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]object](t, w), 1)

	w = ts.do(t, http.MethodGet, "/api/machines/"+uuid.NewString()+"/sensors", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSensors_Units(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/sensors/units", nil)
	require.Equal(t, http.StatusOK, w.Code)
	units := decode[[]sensorUnit](t, w)
	require.Len(t, units, 6)
	assert.Equal(t, sensorUnit{Type: "temperature", Label: "Temperatura", Unit: "°C"}, units[0])
}

func TestEmployees(t *testing.T) {
	ts := newTestServer(t)
	valid := object{
		"name":          "Ana Souza",
		"employee_code": "EMP-001",
		"email":         "ana@example.com",
		"phone":         "11987654321",
		"department":    "Manutenção",
		"position":      "Técnica",
		"hire_date":     "2022-03-01",
		"skills":        []string{"solda", "hidráulica"},
	}

	invalidBodies := map[string]func(object){
		"bad email":    func(b object) { b["email"] = "ana" },
		"short phone":  func(b object) { b["phone"] = "1234" },
		"no hire date": func(b object) { delete(b, "hire_date") },
		"bad status":   func(b object) { b["status"] = "retired" },
	}
	for name, mutate := range invalidBodies {
		t.Run(name, func(t *testing.T) {
			body := object{}
			for k, v := range valid {
				body[k] = v
			}
			mutate(body)
			w := ts.do(t, http.MethodPost, "/api/employees", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Erro ao criar funcionário", decode[object](t, w)["error"])
		})
	}

	w := ts.do(t, http.MethodPost, "/api/employees", valid)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode[object](t, w)
	id := got["id"].(string)
	assert.Equal(t, "active", got["status"])
	assert.Equal(t, []any{"solda", "hidráulica"}, got["skills"])
	assert.Equal(t, []any{}, got["certifications"])

	w = ts.do(t, http.MethodPut, "/api/employees/"+id, object{"status": "vacation", "certifications": []string{"NR-10"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = decode[object](t, w)
	assert.Equal(t, "vacation", got["status"])
	assert.Equal(t, []any{"NR-10"}, got["certifications"])

	w = ts.do(t, http.MethodGet, "/api/employees?department=Manutenção", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]object](t, w), 1)
	w = ts.do(t, http.MethodGet, "/api/employees?department=Produção", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]object](t, w))

	w = ts.do(t, http.MethodDelete, "/api/employees/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/employees/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Funcionário não encontrado"}`, w.Body.String())
}

func TestWorkOrders_Lifecycle(t *testing.T) {
	ts := newTestServer(t)
	machineID := ts.createMachine(t, "CNC-001")
	partID := ts.createPart(t, "ROL-001", 5, 2)

	w := ts.do(t, http.MethodPost, "/api/work-orders", object{
		"title": "Troca", "description": "curta", "machine_id": machineID, "maintenance_type": "corrective",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro ao criar ordem de serviço", decode[object](t, w)["error"])

	w = ts.do(t, http.MethodPost, "/api/work-orders", object{
		"title": "Troca", "description": "Substituir o rolamento", "machine_id": uuid.NewString(), "maintenance_type": "corrective",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Máquina não encontrada"}`, w.Body.String())

	order := ts.createWorkOrder(t, machineID, object{"priority": "high", "scheduled_date": "2024-07-01"})
	id := order["id"].(string)
	assert.Regexp(t, `^OS-\d{4}-\d{3}$`, order["order_number"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "Aberta", order["status_label"])
	assert.Equal(t, "high", order["priority"])
	assert.Equal(t, "CNC-001", order["machine"].(object)["name"])

	w = ts.do(t, http.MethodPost, "/api/work-orders/"+id+"/parts", object{"part_id": partID, "quantity_used": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 2.0, decode[object](t, w)["quantity_used"])

	w = ts.do(t, http.MethodGet, "/api/parts/"+partID, nil)
	assert.Equal(t, 3.0, decode[object](t, w)["quantity"])

	w = ts.do(t, http.MethodPost, "/api/work-orders/"+id+"/parts", object{"part_id": partID, "quantity_used": 10})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Estoque insuficiente", decode[object](t, w)["details"])

	w = ts.do(t, http.MethodPost, "/api/work-orders/"+id+"/parts", object{"part_id": partID, "quantity_used": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/work-orders/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	parts := decode[object](t, w)["parts"].([]any)
	require.Len(t, parts, 1)
	assert.Equal(t, "ROL-001", parts[0].(object)["part"].(object)["code"])

	w = ts.do(t, http.MethodDelete, "/api/work-orders/"+id+"/parts/"+partID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/parts/"+partID, nil)
	assert.Equal(t, 5.0, decode[object](t, w)["quantity"])

	w = ts.do(t, http.MethodPost, "/api/work-orders/"+id+"/progress", object{"hours_worked": 2, "notes": "Rolamento removido"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[object](t, w)
	assert.Equal(t, "in_progress", got["status"])
	assert.Equal(t, 2.0, got["actual_hours"])
	assert.NotNil(t, got["started_at"])

	w = ts.do(t, http.MethodPost, "/api/work-orders/"+id+"/progress", object{"hours_worked": 1.5, "notes": "Rolamento novo instalado", "completed": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = decode[object](t, w)
	assert.Equal(t, "completed", got["status"])
	assert.Equal(t, 3.5, got["actual_hours"])
	assert.Equal(t, "Rolamento removido\nRolamento novo instalado", got["notes"])
	assert.NotNil(t, got["completed_at"])

	w = ts.do(t, http.MethodPost, "/api/work-orders/"+id+"/progress", object{"hours_worked": 1, "notes": "Mais uma anotação"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/api/work-orders/"+id+"/progress", object{"hours_worked": 0, "notes": "curta"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/work-orders?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]object](t, w), 1)
	w = ts.do(t, http.MethodGet, "/api/work-orders?status=done", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkOrders_PendingAndNumbers(t *testing.T) {
	ts := newTestServer(t)
	machineID := ts.createMachine(t, "CNC-001")

	low := ts.createWorkOrder(t, machineID, object{"priority": "low", "scheduled_date": "2024-05-01"})
	critical := ts.createWorkOrder(t, machineID, object{"priority": "critical", "maintenance_type": "emergency", "scheduled_date": "2024-05-20"})
	manual := ts.createWorkOrder(t, machineID, object{"order_number": "os-2020-7", "scheduled_date": "2024-05-10"})
	high := ts.createWorkOrder(t, machineID, object{"priority": "high", "scheduled_date": "2024-05-30"})
	cancelled := ts.createWorkOrder(t, machineID, object{"priority": "critical", "scheduled_date": "2024-04-01"})
	assert.Equal(t, "OS-2020-007", manual["order_number"])

	w := ts.do(t, http.MethodPost, "/api/work-orders", object{
		"order_number": "OS-20-1", "title": "Troca", "description": "Substituir o rolamento",
		"machine_id": machineID, "maintenance_type": "corrective",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Número da ordem inválido", decode[object](t, w)["details"])

	w = ts.do(t, http.MethodPut, "/api/work-orders/"+cancelled["id"].(string), object{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Priority wins over an earlier scheduled date.
	w = ts.do(t, http.MethodGet, "/api/work-orders/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ids []any
	for _, o := range decode[[]object](t, w) {
		ids = append(ids, o["id"])
	}
	assert.Equal(t, []any{critical["id"], high["id"], manual["id"], low["id"]}, ids)

	w = ts.do(t, http.MethodDelete, "/api/work-orders/"+manual["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/work-orders/"+manual["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Ordem de serviço não encontrada"}`, w.Body.String())
}

func TestReports(t *testing.T) {
	ts := newTestServer(t)
	machineID := ts.createMachine(t, "CNC-001")
	ts.createMachine(t, "HID-205")
	ts.createPart(t, "ROL-001", 1, 5)
	ts.createPart(t, "ROL-002", 10, 5)
	sensorID := ts.createSensor(t, machineID, "TMP-1")
	ts.createWorkOrder(t, machineID, nil)

	w := ts.do(t, http.MethodPost, "/api/sensors/"+sensorID+"/readings", object{"value": 250})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/reports/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[object](t, w)
	assert.Equal(t, 2.0, sum["total_machines"])
	assert.Equal(t, 2.0, sum["active_machines"])
	assert.Equal(t, 1.0, sum["pending_work_orders"])
	assert.Equal(t, 1.0, sum["parts_in_stock"])
	assert.Equal(t, 1.0, sum["low_stock_parts"])
	assert.Equal(t, 1.0, sum["critical_alerts"])

	w = ts.do(t, http.MethodGet, "/api/reports/analytics?months=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	analytics := decode[object](t, w)
	assert.Len(t, analytics["maintenance"], 3)
	assert.Len(t, analytics["cost"], 3)

	w = ts.do(t, http.MethodGet, "/api/reports/analytics?months=abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[object](t, w)["maintenance"], 6)

	w = ts.do(t, http.MethodGet, "/api/reports/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="relatorio_manutencao_20240620.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestReports_AnalyticsWindowInUTC(t *testing.T) {
	ts := newTestServer(t)
	machineID := ts.createMachine(t, "CNC-001")
	ts.createWorkOrder(t, machineID, object{"scheduled_date": "2024-05-10"})

	// Already June at UTC+3 but still May 31st in UTC.
	ts.handler.now = func() time.Time {
		return time.Date(2024, 6, 1, 2, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))
	}

	w := ts.do(t, http.MethodGet, "/api/reports/analytics?months=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	analytics := decode[object](t, w)
	assert.Equal(t, "2024-05-01T00:00:00Z", analytics["from"])

	series := analytics["maintenance"].([]any)
	require.Len(t, series, 1)
	point := series[0].(map[string]any)
	assert.Equal(t, "2024-05", point["month"])
	assert.Equal(t, 1.0, point["corretiva"])
	assert.Equal(t, 1.0, analytics["totals"].(map[string]any)["maintenances"])
}

func TestSubscriptions(t *testing.T) {
	ts := newTestServer(t)
	machineID := ts.createMachine(t, "CNC-001")
	endpoint := "https://push.example.com/send/abc"

	w := ts.do(t, http.MethodPut, "/api/subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro ao criar assinatura", decode[object](t, w)["error"])

	w = ts.do(t, http.MethodPut, "/api/subscriptions", object{
		"endpoint": endpoint, "p256dh": "key", "auth": "secret",
		"subscribed_machines": []string{machineID},
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"subscribed_machines":[%q]}`, machineID), w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/subscriptions", object{"endpoint": endpoint})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Assinatura não encontrada"}`, w.Body.String())
}

func TestGetVAPIDPublicKey(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/vapid_public_key", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	ts.handler.webpush = &webpush.Options{VAPIDPublicKey: "BPublic"}
	w = ts.do(t, http.MethodGet, "/api/vapid_public_key", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"BPublic"}`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t)
	r := NewRouter(ts.handler, config.ServerConfig{RateLimitPerSec: 1, RateLimitBurst: 1, CacheTTL: time.Minute}, zap.NewNop())

	do := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sensors/units", nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
