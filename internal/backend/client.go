// Package backend is the HTTP client of the POS backend, the external
// authority over movimientos de caja and their persistence. Four
// operations, plain JSON over HTTP, no client-side retry or caching.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"arqueogw/internal/infra"
	"arqueogw/internal/model"
)

// FetchError signals a transport-level failure reading from the backend.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("backend: %s: %v", e.Op, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

var (
	// ErrMovimientoNoEncontrado — the backend has no such movimiento.
	ErrMovimientoNoEncontrado = errors.New("movimiento de caja no encontrado")
	// ErrRegistroNoEncontrado — a cerrado movimiento is missing its arqueo
	// record. Data-integrity problem: surfaced, never defaulted.
	ErrRegistroNoEncontrado = errors.New("arqueo no registrado para el movimiento")
)

// Client is the surface the close orchestrator depends on. Tests provide
// in-memory fakes; production uses HTTPClient.
type Client interface {
	Resumen(ctx context.Context, movimientoID int64) (*model.ResumenCaja, error)
	Arqueo(ctx context.Context, movimientoID int64) (*model.RegistroArqueo, error)
	RegistrarArqueo(ctx context.Context, reg *model.RegistroArqueo) error
	CerrarCaja(ctx context.Context, movimientoID int64) error
}

// HTTPClient talks to the real POS backend. All calls go through the
// circuit breaker when one is configured.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *infra.Breaker
}

func NewHTTPClient(baseURL string, timeout time.Duration, cb *infra.Breaker) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
	}
}

// ── Bearer token forwarding ───────────────────────────────────────────────
// The gateway never mints or validates credentials; it forwards the
// caller's token verbatim to the backend.

type tokenKey struct{}

// WithToken returns a context carrying the caller's bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// ── Operations ────────────────────────────────────────────────────────────

// Resumen fetches the expected cash position and lifecycle state of a
// movimiento. GET /movimientos/resumen/{id}.
func (c *HTTPClient) Resumen(ctx context.Context, movimientoID int64) (*model.ResumenCaja, error) {
	var w resumenWire
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movimientos/resumen/%d", movimientoID), nil, &w)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMovimientoNoEncontrado
		}
		return nil, &FetchError{Op: "obtener resumen", Err: err}
	}
	return w.toModel(movimientoID), nil
}

// Arqueo fetches the stored reconciliation record of a cerrado movimiento.
// GET /arqueo/movimiento/{id}.
func (c *HTTPClient) Arqueo(ctx context.Context, movimientoID int64) (*model.RegistroArqueo, error) {
	var w arqueoWire
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/arqueo/movimiento/%d", movimientoID), nil, &w)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRegistroNoEncontrado
		}
		return nil, &FetchError{Op: "obtener arqueo", Err: err}
	}
	return w.toModel(), nil
}

// RegistrarArqueo persists the reconciliation record.
// POST /arqueo/registrar with the flat 10-denomination + 5-pair body.
func (c *HTTPClient) RegistrarArqueo(ctx context.Context, reg *model.RegistroArqueo) error {
	w := arqueoToWire(reg)
	return c.do(ctx, http.MethodPost, "/arqueo/registrar", &w, nil)
}

// CerrarCaja marks the movimiento cerrado. PUT /movimientos/cerrarCaja/{id}.
func (c *HTTPClient) CerrarCaja(ctx context.Context, movimientoID int64) error {
	var resp struct {
		Message string `json:"message"`
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/movimientos/cerrarCaja/%d", movimientoID), nil, &resp)
}

// ── Plumbing ──────────────────────────────────────────────────────────────

type statusError struct {
	status int
	path   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend respondió %d en %s", e.status, e.path)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == http.StatusNotFound
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	call := func() error {
		var reader *bytes.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("marshal request: %w", err)
			}
			reader = bytes.NewReader(data)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if token := tokenFrom(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &statusError{status: resp.StatusCode, path: path}
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if c.cb == nil {
		return call()
	}

	// 4xx responses are the backend answering, not the backend failing:
	// a run of not-found lookups must never trip the circuit. They are
	// hidden from the breaker's failure count and surfaced afterwards.
	var clientErr error
	err := c.cb.Do(func() error {
		err := call()
		var se *statusError
		if errors.As(err, &se) && se.status >= 400 && se.status < 500 {
			clientErr = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return clientErr
}
