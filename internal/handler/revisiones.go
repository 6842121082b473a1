package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/apierror"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/middleware"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/service"
)

type RevisionesHandler struct{ svc service.RevisionService }

func NewRevisionesHandler(svc service.RevisionService) *RevisionesHandler {
	return &RevisionesHandler{svc: svc}
}

// Aplicar godoc
// @Summary Aplicar revision masiva de precios
// @Tags revisiones
// @Accept json
// @Produce json
// @Param body body dto.AplicarRevisionRequest true "Filtro y porcentaje"
// @Success 201 {object} dto.RevisionResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/revisiones-precios [post]
func (h *RevisionesHandler) Aplicar(c *gin.Context) {
	var req dto.AplicarRevisionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Aplicar(c.Request.Context(), actorUsername(c), req)
	if err != nil {
		writeRevisionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Previsualizar POST /v1/revisiones-precios/preview
// Read-only: computes the would-be prices without persisting anything.
func (h *RevisionesHandler) Previsualizar(c *gin.Context) {
	var req dto.AplicarRevisionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Previsualizar(c.Request.Context(), req)
	if err != nil {
		writeRevisionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Revertir godoc
// @Summary Revertir una revision aplicada
// @Tags revisiones
// @Produce json
// @Param id path string true "ID de la revision original"
// @Success 201 {object} dto.RevisionResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/revisiones-precios/{id}/revertir [post]
func (h *RevisionesHandler) Revertir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Revertir(c.Request.Context(), actorUsername(c), id)
	if err != nil {
		writeRevisionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RevisionesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Revision no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RevisionesHandler) Listar(c *gin.Context) {
	// Normalization (floor, cap) lives in the service, next to the query.
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar revisiones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeRevisionError maps service sentinel errors to HTTP status codes.
func writeRevisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRevisionNoEncontrada),
		errors.Is(err, service.ErrCategoriaNoEncontrada),
		errors.Is(err, service.ErrProveedorNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrRevisionYaRevertida),
		errors.Is(err, service.ErrRevisionNoReversible):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPorcentajeInvalido),
		errors.Is(err, service.ErrFiltroInvalido),
		errors.Is(err, service.ErrFiltroSinProductos):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error al procesar la revision"))
	}
}

func actorUsername(c *gin.Context) string {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.Username
	}
	return "desconocido"
}
