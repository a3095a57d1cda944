package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arqueogw/internal/arqueo"
	"arqueogw/internal/backend"
	"arqueogw/internal/dto"
	"arqueogw/internal/handler"
	"arqueogw/internal/model"
	"arqueogw/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCierreService struct {
	resumen *dto.ResumenCajaResponse
	arqueo  *dto.ArqueoResponse
	cierre  *dto.CierreResponse
	err     error
}

func (f *fakeCierreService) Resumen(_ context.Context, _ int64) (*dto.ResumenCajaResponse, error) {
	return f.resumen, f.err
}

func (f *fakeCierreService) Arqueo(_ context.Context, _ int64) (*dto.ArqueoResponse, error) {
	return f.arqueo, f.err
}

func (f *fakeCierreService) Cerrar(_ context.Context, _ int64, _ dto.CierreRequest) (*dto.CierreResponse, error) {
	return f.cierre, f.err
}

func setupRouter(svc service.CierreService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCajaHandler(svc)
	g := r.Group("/v1/caja")
	g.GET("/:id/resumen", h.Resumen)
	g.GET("/:id/arqueo", h.Arqueo)
	g.POST("/:id/cierre", h.Cerrar)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResumenOK(t *testing.T) {
	svc := &fakeCierreService{resumen: &dto.ResumenCajaResponse{
		MovimientoID: 7,
		MontoCierre:  decimal.NewFromInt(15000),
		Estado:       model.EstadoAbierto,
	}}
	w := doJSON(t, setupRouter(svc), http.MethodGet, "/v1/caja/7/resumen", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.ResumenCajaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.MovimientoID)
	assert.Equal(t, model.EstadoAbierto, got.Estado)
	assert.Nil(t, got.Arqueo)
}

func TestResumenNoEncontrado(t *testing.T) {
	svc := &fakeCierreService{err: backend.ErrMovimientoNoEncontrado}
	w := doJSON(t, setupRouter(svc), http.MethodGet, "/v1/caja/99/resumen", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumenIDInvalido(t *testing.T) {
	w := doJSON(t, setupRouter(&fakeCierreService{}), http.MethodGet, "/v1/caja/abc/resumen", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ID de movimiento inválido")
}

func TestResumenBackendCaido(t *testing.T) {
	svc := &fakeCierreService{err: &backend.FetchError{Op: "obtener resumen", Err: errors.New("conn refused")}}
	w := doJSON(t, setupRouter(svc), http.MethodGet, "/v1/caja/7/resumen", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCerrarOK(t *testing.T) {
	svc := &fakeCierreService{cierre: &dto.CierreResponse{
		MovimientoID: 7,
		Estado:       model.EstadoCerrado,
		Total:        decimal.NewFromInt(15000),
		Diferencia:   dto.DiferenciaResponse{Clasificacion: "cuadrado"},
	}}
	body := `{"conteo":{"10000":1,"5000":1},"detalles":[]}`
	w := doJSON(t, setupRouter(svc), http.MethodPost, "/v1/caja/7/cierre", body)

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.CierreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.EstadoCerrado, got.Estado)
	assert.Equal(t, "cuadrado", got.Diferencia.Clasificacion)
}

func TestCerrarNoCuadraDevuelve409ConDesglose(t *testing.T) {
	svc := &fakeCierreService{err: &arqueo.MismatchError{Comparacion: arqueo.Comparacion{
		Clasificacion: arqueo.Faltante,
		Diferencia:    decimal.NewFromInt(200),
		Contado:       decimal.NewFromInt(5000),
		Esperado:      decimal.NewFromInt(5200),
	}}}
	body := `{"conteo":{"5000":1}}`
	w := doJSON(t, setupRouter(svc), http.MethodPost, "/v1/caja/7/cierre", body)

	require.Equal(t, http.StatusConflict, w.Code)
	var got dto.MismatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "arqueo_no_cuadra", got.Code)
	assert.Equal(t, "faltante", got.Diferencia.Clasificacion)
	assert.Equal(t, "200", got.Diferencia.Diferencia.String())
	assert.Equal(t, "5000", got.Diferencia.Contado.String())
	assert.Equal(t, "5200", got.Diferencia.Esperado.String())
}

func TestCerrarParcialDevuelveCodigoDistinto(t *testing.T) {
	svc := &fakeCierreService{err: &service.PartialCloseError{MovimientoID: 7, Err: errors.New("timeout")}}
	body := `{"conteo":{"5000":1}}`
	w := doJSON(t, setupRouter(svc), http.MethodPost, "/v1/caja/7/cierre", body)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"cierre_parcial"`)
	assert.NotContains(t, w.Body.String(), "registro_fallido")
}

func TestCerrarRegistroFallidoDevuelveCodigo(t *testing.T) {
	svc := &fakeCierreService{err: &service.PersistError{MovimientoID: 7, Err: errors.New("500")}}
	body := `{"conteo":{"5000":1}}`
	w := doJSON(t, setupRouter(svc), http.MethodPost, "/v1/caja/7/cierre", body)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"registro_fallido"`)
}

func TestCerrarCajaYaCerradaDevuelve409(t *testing.T) {
	svc := &fakeCierreService{err: service.ErrCajaCerrada}
	body := `{"conteo":{"5000":1}}`
	w := doJSON(t, setupRouter(svc), http.MethodPost, "/v1/caja/7/cierre", body)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCerrarCuerpoInvalido(t *testing.T) {
	w := doJSON(t, setupRouter(&fakeCierreService{}), http.MethodPost, "/v1/caja/7/cierre", "{no es json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCerrarDemasiadosDetalles(t *testing.T) {
	body := `{"conteo":{},"detalles":[
		{"etiqueta":"a","monto":1},{"etiqueta":"b","monto":1},{"etiqueta":"c","monto":1},
		{"etiqueta":"d","monto":1},{"etiqueta":"e","monto":1},{"etiqueta":"f","monto":1}]}`
	w := doJSON(t, setupRouter(&fakeCierreService{}), http.MethodPost, "/v1/caja/7/cierre", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCerrarConteoInexpresableDevuelve400(t *testing.T) {
	svc := &fakeCierreService{err: &service.InputError{Err: errors.New("denominación desconocida: 25")}}
	body := `{"conteo":{"25":1}}`
	w := doJSON(t, setupRouter(svc), http.MethodPost, "/v1/caja/7/cierre", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "denominación desconocida")
}

func TestErrorNoClasificadoDevuelve500SinDetalles(t *testing.T) {
	svc := &fakeCierreService{err: errors.New("pánico interno con ruta /var/secreta")}
	body := `{"conteo":{"5000":1}}`
	w := doJSON(t, setupRouter(svc), http.MethodPost, "/v1/caja/7/cierre", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error interno del servidor")
	assert.NotContains(t, w.Body.String(), "secreta")
}

func TestArqueoDeMovimientoCerrado(t *testing.T) {
	svc := &fakeCierreService{arqueo: &dto.ArqueoResponse{
		ID:           9,
		MovimientoID: 7,
		Conteo:       map[model.Denominacion]int{100: 3},
		Total:        decimal.NewFromInt(300),
	}}
	w := doJSON(t, setupRouter(svc), http.MethodGet, "/v1/caja/7/arqueo", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.ArqueoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(9), got.ID)
}

func TestArqueoNoRegistrado(t *testing.T) {
	svc := &fakeCierreService{err: backend.ErrRegistroNoEncontrado}
	w := doJSON(t, setupRouter(svc), http.MethodGet, "/v1/caja/7/arqueo", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
