//go:build integration

package e2e

// End-to-end integration tests for the arqueo gateway using a real Redis
// via testcontainers and a stateful in-process fake of the POS backend.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   T-E2E-1: Full close cycle (resumen → conteo → cierre → resumen cerrado)
//   T-E2E-2: Mismatch blocks the close and persists nothing
//   T-E2E-3: Partial close → retry skips re-persisting the arqueo record

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"arqueogw/internal/config"
	"arqueogw/internal/infra"
	"arqueogw/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Fake POS backend ─────────────────────────────────────────────────────────

// fakePOS mimics the four endpoints the gateway consumes. It keeps the
// movimiento state in memory so a close actually transitions abierto → cerrado.
type fakePOS struct {
	mu sync.Mutex

	estado         string
	montoCierre    float64
	arqueo         map[string]any // last registered record, as received
	registrarCalls int
	failCerrarOnce bool
}

func newFakePOS(montoCierre float64) *fakePOS {
	return &fakePOS{estado: "abierto", montoCierre: montoCierre}
}

func (f *fakePOS) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /movimientos/resumen/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"ingresos": 0, "egresos": 0, "contado": 0, "cobrado": 0,
			"compras": 0, "gastos": 0, "credito": 0,
			"monto_apertura": 1000, "monto_cierre": f.montoCierre,
			"estado": f.estado,
		})
	})

	mux.HandleFunc("GET /arqueo/movimiento/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.arqueo == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(f.arqueo)
	})

	mux.HandleFunc("POST /arqueo/registrar", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.registrarCalls++
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body["id"] = 1
		f.arqueo = body
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("PUT /movimientos/cerrarCaja/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failCerrarOnce {
			f.failCerrarOnce = false
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.estado = "cerrado"
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	pos    *fakePOS
	engine *gin.Engine
}

func setupTestEnv(t *testing.T, pos *fakePOS) *testEnv {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	posSrv := httptest.NewServer(pos.handler())
	t.Cleanup(posSrv.Close)

	cfg := &config.Config{
		Port:              8090,
		Env:               "test",
		BackendURL:        posSrv.URL,
		BackendTimeoutSec: 5,
		RedisURL:          rdURL,
		WorkerPoolSize:    1,
		PDFStoragePath:    t.TempDir(),
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	cb := infra.NewBreaker(0, 0, 0)
	r := router.New(cfg, rdb, cb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, pos: pos, engine: r}
}

// ── Tests ────────────────────────────────────────────────────────────────────

// T-E2E-1: Full close cycle
func TestE2E_CierreCompleto(t *testing.T) {
	pos := newFakePOS(15000)
	env := setupTestEnv(t, pos)

	// 1. Resumen of the open movimiento
	resResp := do(t, env.server, "GET", "/v1/caja/42/resumen", nil)
	require.Equal(t, http.StatusOK, resResp.StatusCode)
	var resumen struct {
		Estado      string  `json:"estado"`
		MontoCierre float64 `json:"monto_cierre"`
	}
	decodeJSON(t, resResp, &resumen)
	assert.Equal(t, "abierto", resumen.Estado)
	assert.Equal(t, 15000.0, resumen.MontoCierre)

	// 2. Close with a count that matches: 1×10000 + 1×5000
	cierreResp := do(t, env.server, "POST", "/v1/caja/42/cierre",
		jsonBody(t, map[string]any{
			"conteo":   map[string]int{"10000": 1, "5000": 1},
			"detalles": []any{},
		}))
	require.Equal(t, http.StatusOK, cierreResp.StatusCode)
	var cierre struct {
		Estado     string  `json:"estado"`
		Total      float64 `json:"total"`
		Diferencia struct {
			Clasificacion string `json:"clasificacion"`
		} `json:"diferencia"`
	}
	decodeJSON(t, cierreResp, &cierre)
	assert.Equal(t, "cerrado", cierre.Estado)
	assert.Equal(t, 15000.0, cierre.Total)
	assert.Equal(t, "cuadrado", cierre.Diferencia.Clasificacion)

	// 3. Resumen now includes the stored arqueo
	resResp2 := do(t, env.server, "GET", "/v1/caja/42/resumen", nil)
	require.Equal(t, http.StatusOK, resResp2.StatusCode)
	var cerrado struct {
		Estado string `json:"estado"`
		Arqueo *struct {
			Total float64 `json:"total"`
		} `json:"arqueo"`
	}
	decodeJSON(t, resResp2, &cerrado)
	assert.Equal(t, "cerrado", cerrado.Estado)
	require.NotNil(t, cerrado.Arqueo)
	assert.Equal(t, 15000.0, cerrado.Arqueo.Total)

	// Exactly one persisted record
	assert.Equal(t, 1, pos.registrarCalls)
}

// T-E2E-2: Mismatch blocks the close
func TestE2E_ArqueoNoCuadra(t *testing.T) {
	pos := newFakePOS(15200)
	env := setupTestEnv(t, pos)

	cierreResp := do(t, env.server, "POST", "/v1/caja/42/cierre",
		jsonBody(t, map[string]any{
			"conteo": map[string]int{"10000": 1, "5000": 1}, // 15000, expected 15200
		}))
	require.Equal(t, http.StatusConflict, cierreResp.StatusCode)
	var mismatch struct {
		Code       string `json:"code"`
		Diferencia struct {
			Clasificacion string  `json:"clasificacion"`
			Diferencia    float64 `json:"diferencia"`
		} `json:"diferencia"`
	}
	decodeJSON(t, cierreResp, &mismatch)
	assert.Equal(t, "arqueo_no_cuadra", mismatch.Code)
	assert.Equal(t, "faltante", mismatch.Diferencia.Clasificacion)
	assert.Equal(t, 200.0, mismatch.Diferencia.Diferencia)

	// Nothing touched the backend's write endpoints
	assert.Equal(t, 0, pos.registrarCalls)
	assert.Equal(t, "abierto", pos.estado)
}

// T-E2E-3: Partial close, then retry skips the persist step
func TestE2E_CierreParcialYReintento(t *testing.T) {
	pos := newFakePOS(15000)
	pos.failCerrarOnce = true
	env := setupTestEnv(t, pos)

	body := map[string]any{"conteo": map[string]int{"10000": 1, "5000": 1}}

	// First attempt: record persists, closure fails
	first := do(t, env.server, "POST", "/v1/caja/42/cierre", jsonBody(t, body))
	require.Equal(t, http.StatusBadGateway, first.StatusCode)
	var partial struct {
		Code string `json:"code"`
	}
	decodeJSON(t, first, &partial)
	assert.Equal(t, "cierre_parcial", partial.Code)
	assert.Equal(t, 1, pos.registrarCalls)
	assert.Equal(t, "abierto", pos.estado)

	// Retry with the same count: only the closure runs
	retry := do(t, env.server, "POST", "/v1/caja/42/cierre", jsonBody(t, body))
	require.Equal(t, http.StatusOK, retry.StatusCode)
	var cierre struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, retry, &cierre)
	assert.Equal(t, "cerrado", cierre.Estado)

	// The journal prevented a duplicate record
	assert.Equal(t, 1, pos.registrarCalls)
}
