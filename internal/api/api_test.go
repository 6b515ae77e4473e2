package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/cerealdex/cerealdex/cerealdex"
	"github.com/cerealdex/cerealdex/cerealdex/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const catalogCSV = `name,mfr,type,calories,protein,fat,sodium,fiber,carbo,sugars,potass,vitamins,shelf,weight,cups,rating
100% Bran,N,C,70,4,1,130,10,5,6,280,25,3,1,0.33,68.402973
100% Natural Bran,Q,C,120,3,5,15,2,8,8,135,0,3,1,1,33.983679
All-Bran,K,C,70,4,1,260,9,7,5,320,25,3,1,0.33,59.425505
Cheerios,G,C,110,6,2,290,2,17,1,105,25,1,1,1.25,50.764999
Maypo,A,H,100,4,1,0,0,16,3,95,25,2,1,1,54.850917
`

func newTestRouter(t *testing.T, seed bool) (*gin.Engine, *cerealdex.Store) {
	t.Helper()
	dir := t.TempDir()
	opts := cerealdex.DefaultOptions()
	opts.StaticDir = filepath.Join(dir, "static")
	opts.BcryptCost = bcrypt.MinCost
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	st, err := cerealdex.Create(ctx, sqlite.New(filepath.Join(dir, "api.db")), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, err = st.CreateUser(ctx, "admin", "pw")
	require.NoError(t, err)
	if seed {
		_, err := st.ImportCSV(ctx, strings.NewReader(catalogCSV))
		require.NoError(t, err)
	}

	r := NewRouter(st, Options{RequireAuth: true, Metrics: true, Logger: opts.Logger})
	return r, st
}

func performRequest(r http.Handler, method, path string, body io.Reader, contentType string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.SetBasicAuth("admin", "pw")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeNames(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var cs []cerealdex.Cereal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cs))
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestListAndGet(t *testing.T) {
	r, _ := newTestRouter(t, false)
	w := performRequest(r, http.MethodGet, "/api/cereals/", nil, "", false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	r, st := newTestRouter(t, true)
	w = performRequest(r, http.MethodGet, "/api/cereals/", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeNames(t, w), 5)

	all, err := st.All(context.Background())
	require.NoError(t, err)
	w = performRequest(r, http.MethodGet, "/api/cereals/"+itoa(all[3].ID), nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var c cerealdex.Cereal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, "Cheerios", c.Name)

	w = performRequest(r, http.MethodGet, "/api/cereals/9999", nil, "", false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodGet, "/api/cereals/abc", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilterEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := performRequest(r, http.MethodGet, "/api/cereals/filter?calories=%3E%3D100&mfr=!%3DQ", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Cheerios", "Maypo"}, decodeNames(t, w))

	w = performRequest(r, http.MethodGet, "/api/cereals/filter?sodium=>1000", nil, "", false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodGet, "/api/cereals/filter?calories=>110&calories=<100", nil, "", false)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "filters contradict each other", body["error"])
	assert.Equal(t, "calories", body["column"])

	w = performRequest(r, http.MethodGet, "/api/cereals/filter?colour==red", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/api/cereals/filter?calories===100", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/api/cereals/filter?calories=%3Dlots", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/api/cereals/filter", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeNames(t, w), 5)
}

func TestCheckEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, false)

	w := performRequest(r, http.MethodPost, "/api/cereals/check",
		strings.NewReader(`{"query": "calories>110 AND calories<=140", "filters": [{"column": "mfr", "op": "noteq", "value": "Q"}]}`),
		"application/json", false)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Feasible bool              `json:"feasible"`
		Columns  map[string]string `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Feasible)
	assert.Equal(t, "[111, 140]", body.Columns["calories"])
	assert.Contains(t, body.Columns, "mfr")

	w = performRequest(r, http.MethodPost, "/api/cereals/check",
		strings.NewReader(`{"query": "mfr=K AND mfr!=K"}`), "application/json", false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMutationsRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := performRequest(r, http.MethodDelete, "/api/cereals/delete/1", nil, "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/cereals/delete/1", nil)
	req.SetBasicAuth("admin", "nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddUpdateDelete(t *testing.T) {
	r, _ := newTestRouter(t, false)

	add := `{"name": "Trix", "mfr": "G", "type": "C", "calories": 110, "protein": 1, "fat": 1,
		"sodium": 140, "fiber": 0, "carbo": 13, "sugars": 12, "potass": 25, "vitamins": 25,
		"shelf": 2, "weight": 1, "cups": 1, "rating": 27.753301}`
	w := performRequest(r, http.MethodPost, "/api/cereals/add/", strings.NewReader(add), "application/json", true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c cerealdex.Cereal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, 27.753301, c.Rating)

	w = performRequest(r, http.MethodPost, "/api/cereals/add/", strings.NewReader(`{"name": "Half"}`), "application/json", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPut, "/api/cereals/add/"+itoa(c.ID), strings.NewReader(`{"sugars": "10"}`), "application/json", true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, int64(10), c.Sugars)

	w = performRequest(r, http.MethodPut, "/api/cereals/add/"+itoa(c.ID), strings.NewReader(`{"id": 5}`), "application/json", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPut, "/api/cereals/add/9999", strings.NewReader(`{"sugars": 1}`), "application/json", true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodDelete, "/api/cereals/delete/"+itoa(c.ID), nil, "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = performRequest(r, http.MethodDelete, "/api/cereals/delete/"+itoa(c.ID), nil, "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestImageUploadAndDownload(t *testing.T) {
	r, st := newTestRouter(t, true)
	all, err := st.All(context.Background())
	require.NoError(t, err)
	id := itoa(all[0].ID)

	upload := func(name, content string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return performRequest(r, http.MethodPost, "/api/cereals/image/"+id, &buf, mw.FormDataContentType(), true)
	}

	w := upload("bran.bmp", "BM")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = upload("bran.png", "not really a png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(r, http.MethodGet, "/api/cereals/getimage/"+id, nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not really a png", w.Body.String())

	w = performRequest(r, http.MethodGet, "/api/cereals/getimage/"+itoa(all[1].ID), nil, "", false)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBulk(t *testing.T) {
	r, st := newTestRouter(t, false)

	w := performRequest(r, http.MethodPost, "/api/cereals/bulk", strings.NewReader(catalogCSV), "text/csv", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res cerealdex.BulkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 5, res.Added)

	rows := `[{"name": "A", "mfr": "K", "type": "C", "calories": 1, "protein": 1, "fat": 1, "sodium": 1,
		"fiber": 1, "carbo": 1, "sugars": 1, "potass": 1, "vitamins": 1, "shelf": 1, "weight": 1, "cups": 1, "rating": 1},
		{"name": "B", "mfr": "nope"}]`
	w = performRequest(r, http.MethodPost, "/api/cereals/bulk", strings.NewReader(rows), "application/json", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Added)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Row)

	all, err := st.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := performRequest(r, http.MethodGet, "/health", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	performRequest(r, http.MethodGet, "/api/cereals/filter?calories=>110&calories=<100", nil, "", false)
	w = performRequest(r, http.MethodGet, "/metrics", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cerealdex_filter_verdicts_total{verdict="infeasible"}`)
	assert.Contains(t, w.Body.String(), "cerealdex_http_request_duration_seconds")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
