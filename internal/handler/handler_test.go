package handler

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"
	"timeclock/internal/config"
	"timeclock/internal/repository"
	"timeclock/internal/service"
	"timeclock/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(db) })

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	require.NoError(t, err)
	recordRepo, err := repository.NewGormTimeRecordRepository(db)
	require.NoError(t, err)

	cfg := &config.AppConfig{CORSAllowedOrigins: []string{"*"}, Location: time.UTC}
	h := NewHandler(
		service.NewEmployeeService(employeeRepo),
		service.NewTimeRecordService(recordRepo, service.WithLocation(time.UTC)),
		service.NewReportService(recordRepo, employeeRepo, time.UTC),
		cfg,
	)

	return h.Router()
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestEmployees(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/employees", map[string]interface{}{"name": "Ana", "position": "Cashier"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Employee added successfully!", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodPost, "/employees", map[string]interface{}{"name": "Bruno", "position": nil})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/employees", map[string]interface{}{"name": "Ana"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Employee name already exists!", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodPost, "/employees", map[string]interface{}{"position": "Chef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Employees []struct {
			ID       uint    `json:"id"`
			Name     string  `json:"name"`
			Position *string `json:"position"`
		} `json:"employees"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Employees, 2)
	assert.Equal(t, "Ana", list.Employees[0].Name)
	require.NotNil(t, list.Employees[0].Position)
	assert.Equal(t, "Cashier", *list.Employees[0].Position)
	assert.Nil(t, list.Employees[1].Position)
}

func TestTimeRecords(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/employees", map[string]interface{}{"name": "Ana"})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name    string
		body    map[string]interface{}
		status  int
		message string
	}{
		{"unknown employee", map[string]interface{}{"employee_id": 99, "type": "check_in"}, http.StatusNotFound, "Employee not found!"},
		{"invalid type", map[string]interface{}{"employee_id": 1, "type": "lunch"}, http.StatusBadRequest, "Invalid record type!"},
		{"check out first", map[string]interface{}{"employee_id": 1, "type": "check_out"}, http.StatusBadRequest, "Employee not checked in or already checked out!"},
		{"break end first", map[string]interface{}{"employee_id": 1, "type": "break_end"}, http.StatusBadRequest, "Break not started or already ended!"},
		{"check in", map[string]interface{}{"employee_id": 1, "type": "check_in"}, http.StatusOK, "Time record added successfully!"},
		{"check in again", map[string]interface{}{"employee_id": 1, "type": "check_in"}, http.StatusBadRequest, "Employee already checked in!"},
		{"break start", map[string]interface{}{"employee_id": 1, "type": "break_start"}, http.StatusOK, "Time record added successfully!"},
		{"break start again", map[string]interface{}{"employee_id": 1, "type": "break_start"}, http.StatusBadRequest, "Break already started!"},
		{"break end", map[string]interface{}{"employee_id": 1, "type": "break_end"}, http.StatusOK, "Time record added successfully!"},
		{"check out", map[string]interface{}{"employee_id": 1, "type": "check_out"}, http.StatusOK, "Time record added successfully!"},
		{"break after check out", map[string]interface{}{"employee_id": 1, "type": "break_start"}, http.StatusBadRequest, "Employee not checked in!"},
		{"missing employee", map[string]interface{}{"type": "check_in"}, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		w := doJSON(t, r, http.MethodPost, "/time_records", tt.body)
		assert.Equal(t, tt.status, w.Code, tt.name)
		assert.Equal(t, tt.message, decode(t, w)["message"], tt.name)
	}

	w = doJSON(t, r, http.MethodGet, "/time_records/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		TimeRecords []map[string]interface{} `json:"time_records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.TimeRecords, 1)

	rec := list.TimeRecords[0]
	assert.EqualValues(t, 1, rec["employee_id"])
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), rec["date"])
	for _, key := range []string{"check_in", "check_out", "break_start", "break_end"} {
		value, ok := rec[key].(string)
		require.True(t, ok, key)
		_, err := time.Parse("2006-01-02T15:04:05", value)
		assert.NoError(t, err, key)
	}

	w = doJSON(t, r, http.MethodGet, "/time_records/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/time_records/42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["time_records"])
}

func TestGenerateReport(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/employees", map[string]interface{}{"name": "Ana Souza"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/time_records", map[string]interface{}{"employee_id": 1, "type": "check_in"})
	require.Equal(t, http.StatusOK, w.Code)

	now := time.Now().UTC()
	start := now.AddDate(0, 0, -1).Format("2006-01-02")
	end := now.AddDate(0, 0, 1).Format("2006-01-02")

	query := url.Values{"start_date": {start}, "end_date": {end}}
	w = doJSON(t, r, http.MethodGet, "/generate_report?"+query.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, service.ReportContentType, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "timesheet_"+start+"_to_"+end+".xlsx", params["filename"])

	query.Set("employee_id", "1")
	w = doJSON(t, r, http.MethodGet, "/generate_report?"+query.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, params, err = mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "timesheet_Ana Souza_"+start+"_to_"+end+".xlsx", params["filename"])

	w = doJSON(t, r, http.MethodGet, "/generate_report?start_date=2024/13/40&end_date=2024-01-31", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid date format", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodGet, "/generate_report?start_date=2001-01-01&end_date=2001-01-31", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No records found for the specified period", decode(t, w)["message"])
}

func TestRequestIDAndCORS(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"http://a.example", "http://b.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowOrigins)
}
