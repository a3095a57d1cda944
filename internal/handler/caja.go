package handler

import (
	"errors"
	"net/http"
	"strconv"

	"arqueogw/internal/apierror"
	"arqueogw/internal/arqueo"
	"arqueogw/internal/backend"
	"arqueogw/internal/dto"
	"arqueogw/internal/infra"
	"arqueogw/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CajaHandler struct{ svc service.CierreService }

func NewCajaHandler(svc service.CierreService) *CajaHandler { return &CajaHandler{svc: svc} }

// Resumen godoc
// @Summary Obtiene el resumen esperado de un movimiento de caja
// @Tags caja
// @Produce json
// @Param id path int true "ID de movimiento"
// @Success 200 {object} dto.ResumenCajaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 502 {object} apierror.APIError
// @Router /v1/caja/{id}/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	id, ok := movimientoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Arqueo godoc
// @Summary Obtiene el arqueo registrado de un movimiento cerrado
// @Tags caja
// @Produce json
// @Param id path int true "ID de movimiento"
// @Success 200 {object} dto.ArqueoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/arqueo [get]
func (h *CajaHandler) Arqueo(c *gin.Context) {
	id, ok := movimientoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Arqueo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar godoc
// @Summary Realiza el arqueo y cierra el movimiento de caja
// @Tags caja
// @Accept json
// @Produce json
// @Param id path int true "ID de movimiento"
// @Param body body dto.CierreRequest true "Conteo de billetes y detalles"
// @Success 200 {object} dto.CierreResponse
// @Failure 409 {object} dto.MismatchResponse
// @Failure 502 {object} apierror.APIError
// @Router /v1/caja/{id}/cierre [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	id, ok := movimientoID(c)
	if !ok {
		return
	}
	var req dto.CierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Helpers ───────────────────────────────────────────────────────────────

func movimientoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID de movimiento inválido"))
		return 0, false
	}
	return id, true
}

// respondError maps the error taxonomy to HTTP. Every service error
// lands here; nothing crashes the request.
func respondError(c *gin.Context, err error) {
	var mismatch *arqueo.MismatchError
	var persist *service.PersistError
	var partial *service.PartialCloseError
	var fetch *backend.FetchError
	var input *service.InputError

	switch {
	case errors.As(err, &mismatch):
		c.JSON(http.StatusConflict, dto.MismatchResponse{
			Detail: mismatch.Error(),
			Code:   "arqueo_no_cuadra",
			Diferencia: dto.DiferenciaResponse{
				Clasificacion: string(mismatch.Clasificacion),
				Diferencia:    mismatch.Diferencia,
				Contado:       mismatch.Contado,
				Esperado:      mismatch.Esperado,
			},
		})
	case errors.As(err, &partial):
		// Distinct code: the client must retry ONLY the close, the arqueo
		// record is already persisted.
		c.JSON(http.StatusBadGateway, apierror.NewCoded("cierre_parcial", partial.Error()))
	case errors.As(err, &persist):
		c.JSON(http.StatusBadGateway, apierror.NewCoded("registro_fallido", persist.Error()))
	case errors.Is(err, service.ErrCajaCerrada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, backend.ErrMovimientoNoEncontrado),
		errors.Is(err, backend.ErrRegistroNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &fetch), errors.Is(err, infra.ErrBreakerOpen):
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
	case errors.As(err, &input):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		// Unclassified errors are server faults. Internal details stay
		// in the log, not the response.
		log.Error().Err(err).Msg("error no clasificado en el cierre de caja")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
