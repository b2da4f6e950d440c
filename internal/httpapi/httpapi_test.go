package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisoputnfrba/go-vmem-tree/internal/registry"
	"github.com/sisoputnfrba/go-vmem-tree/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger("error", "httpapi-test")
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := registry.New()
	t.Cleanup(func() { reg.CloseAll() })
	api := NewServer(reg, t.TempDir(), 0, 0)
	return httptest.NewServer(api.Mux())
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateReadWriteRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	createResp := postJSON(t, srv.URL+"/instances", createRequest{
		Name: "alpha", OffsetWidth: 4, TablesDepth: 3, NumFrames: 5,
	})
	defer createResp.Body.Close()
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	writeResp := postJSON(t, srv.URL+"/instances/alpha/write", writeRequest{Address: 0x10, Value: 99})
	defer writeResp.Body.Close()
	require.Equal(t, http.StatusOK, writeResp.StatusCode)

	readResp := postJSON(t, srv.URL+"/instances/alpha/read", readRequest{Address: 0x10})
	defer readResp.Body.Close()
	require.Equal(t, http.StatusOK, readResp.StatusCode)

	var body map[string]int64
	require.NoError(t, json.NewDecoder(readResp.Body).Decode(&body))
	assert.Equal(t, int64(99), body["value"])
}

func TestReadUnknownInstanceReturnsNotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/instances/missing/read", readRequest{Address: 0})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWriteOutOfRangeReturnsBadRequest(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	createResp := postJSON(t, srv.URL+"/instances", createRequest{
		Name: "alpha", OffsetWidth: 4, TablesDepth: 3, NumFrames: 5,
	})
	createResp.Body.Close()
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	resp := postJSON(t, srv.URL+"/instances/alpha/write", writeRequest{Address: 1 << 40, Value: 1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpointReflectsOperations(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	createResp := postJSON(t, srv.URL+"/instances", createRequest{
		Name: "alpha", OffsetWidth: 4, TablesDepth: 3, NumFrames: 5,
	})
	createResp.Body.Close()

	writeResp := postJSON(t, srv.URL+"/instances/alpha/write", writeRequest{Address: 0x10, Value: 1})
	writeResp.Body.Close()

	metricsResp, err := http.Get(srv.URL + "/instances/alpha/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	require.Equal(t, http.StatusOK, metricsResp.StatusCode)

	var snap map[string]int64
	require.NoError(t, json.NewDecoder(metricsResp.Body).Decode(&snap))
	assert.Equal(t, int64(1), snap["writes"])
}

func TestDumpEndpointReturnsPath(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	createResp := postJSON(t, srv.URL+"/instances", createRequest{
		Name: "alpha", OffsetWidth: 4, TablesDepth: 3, NumFrames: 5,
	})
	createResp.Body.Close()

	dumpResp := postJSON(t, srv.URL+"/instances/alpha/dump", struct{}{})
	defer dumpResp.Body.Close()
	require.Equal(t, http.StatusOK, dumpResp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(dumpResp.Body).Decode(&body))
	_, err := os.Stat(body["path"])
	assert.NoError(t, err)
}
