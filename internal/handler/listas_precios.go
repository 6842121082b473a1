package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/apierror"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/service"
)

type ListasPreciosHandler struct{ svc service.ListaPrecioService }

func NewListasPreciosHandler(svc service.ListaPrecioService) *ListasPreciosHandler {
	return &ListasPreciosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear lista de precios
// @Tags listas-precios
// @Accept json
// @Produce json
// @Param body body dto.CrearListaPrecioRequest true "Lista"
// @Success 201 {object} dto.ListaPrecioResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/listas-precios [post]
func (h *ListasPreciosHandler) Crear(c *gin.Context) {
	var req dto.CrearListaPrecioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ListasPreciosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Lista de precios no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListasPreciosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar listas de precios"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListasPreciosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarListaPrecioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrListaNoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListasPreciosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrListaNoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
