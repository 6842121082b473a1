package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/repository"
)

var ErrListaNoEncontrada = errors.New("lista de precios no encontrada")

var menosCien = decimal.NewFromInt(-100)

// ListaPrecioService manages lista definitions. All configuration errors —
// malformed time windows, unknown rounding rules, adjustments that would
// produce negative prices — are surfaced here at edit time, so the resolver
// never has to fail at checkout time.
type ListaPrecioService interface {
	Crear(ctx context.Context, req dto.CrearListaPrecioRequest) (*dto.ListaPrecioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ListaPrecioResponse, error)
	Listar(ctx context.Context) ([]dto.ListaPrecioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarListaPrecioRequest) (*dto.ListaPrecioResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type listaPrecioService struct {
	repo repository.ListaPrecioRepository
	rdb  *redis.Client
}

func NewListaPrecioService(repo repository.ListaPrecioRepository, rdb *redis.Client) ListaPrecioService {
	return &listaPrecioService{repo: repo, rdb: rdb}
}

// validarReglas rejects schedule rules the resolver would have to skip.
func validarReglas(reglas []dto.ReglaHorarioInput) error {
	for i, r := range reglas {
		if r.Dia < 0 || r.Dia > 6 {
			return fmt.Errorf("regla %d: dia fuera de rango (0=domingo .. 6=sabado)", i+1)
		}
		desde, err := time.Parse("15:04", r.Desde)
		if err != nil {
			return fmt.Errorf("regla %d: horario desde invalido (formato HH:mm)", i+1)
		}
		hasta, err := time.Parse("15:04", r.Hasta)
		if err != nil {
			return fmt.Errorf("regla %d: horario hasta invalido (formato HH:mm)", i+1)
		}
		if hasta.Before(desde) {
			return fmt.Errorf("regla %d: una regla no puede cruzar la medianoche, divida en dos reglas", i+1)
		}
	}
	return nil
}

// validarAjuste guards against configurations that would compute negative
// prices downstream. -100% or below is never a legitimate discount.
func validarAjuste(pct decimal.Decimal) error {
	if pct.LessThanOrEqual(menosCien) {
		return errors.New("porcentaje_ajuste invalido: -100% o menor produciria precios negativos")
	}
	return nil
}

func normalizarRedondeo(regla string) string {
	if regla == "" {
		return model.RedondeoNinguno
	}
	return regla
}

func (s *listaPrecioService) Crear(ctx context.Context, req dto.CrearListaPrecioRequest) (*dto.ListaPrecioResponse, error) {
	if err := validarAjuste(req.PorcentajeAjuste); err != nil {
		return nil, err
	}
	if err := validarReglas(req.Reglas); err != nil {
		return nil, err
	}
	categorias, err := parseUUIDs(req.CategoriasExcluidas)
	if err != nil {
		return nil, fmt.Errorf("categorias_excluidas: %w", err)
	}
	productos, err := parseUUIDs(req.ProductosExcluidos)
	if err != nil {
		return nil, fmt.Errorf("productos_excluidos: %w", err)
	}

	lista := &model.ListaPrecio{
		Nombre:              req.Nombre,
		PorcentajeAjuste:    req.PorcentajeAjuste,
		ReglaRedondeo:       normalizarRedondeo(req.ReglaRedondeo),
		Activa:              true,
		Prioridad:           req.Prioridad,
		Reglas:              reglasToModel(req.Reglas),
		CategoriasExcluidas: categorias,
		ProductosExcluidos:  productos,
	}
	if err := s.repo.Create(ctx, lista); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx)
	return listaToResponse(lista), nil
}

func (s *listaPrecioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ListaPrecioResponse, error) {
	lista, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListaNoEncontrada
		}
		return nil, err
	}
	return listaToResponse(lista), nil
}

func (s *listaPrecioService) Listar(ctx context.Context) ([]dto.ListaPrecioResponse, error) {
	listas, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ListaPrecioResponse, 0, len(listas))
	for i := range listas {
		result = append(result, *listaToResponse(&listas[i]))
	}
	return result, nil
}

func (s *listaPrecioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarListaPrecioRequest) (*dto.ListaPrecioResponse, error) {
	lista, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListaNoEncontrada
		}
		return nil, err
	}

	if req.Nombre != nil {
		lista.Nombre = *req.Nombre
	}
	if req.PorcentajeAjuste != nil {
		if err := validarAjuste(*req.PorcentajeAjuste); err != nil {
			return nil, err
		}
		lista.PorcentajeAjuste = *req.PorcentajeAjuste
	}
	if req.ReglaRedondeo != nil {
		lista.ReglaRedondeo = normalizarRedondeo(*req.ReglaRedondeo)
	}
	if req.Activa != nil {
		lista.Activa = *req.Activa
	}
	if req.Prioridad != nil {
		lista.Prioridad = *req.Prioridad
	}
	if req.Reglas != nil {
		if err := validarReglas(req.Reglas); err != nil {
			return nil, err
		}
		lista.Reglas = reglasToModel(req.Reglas)
	}
	if req.CategoriasExcluidas != nil {
		categorias, err := parseUUIDs(req.CategoriasExcluidas)
		if err != nil {
			return nil, fmt.Errorf("categorias_excluidas: %w", err)
		}
		lista.CategoriasExcluidas = categorias
	}
	if req.ProductosExcluidos != nil {
		productos, err := parseUUIDs(req.ProductosExcluidos)
		if err != nil {
			return nil, fmt.Errorf("productos_excluidos: %w", err)
		}
		lista.ProductosExcluidos = productos
	}

	if err := s.repo.Update(ctx, lista); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx)
	return listaToResponse(lista), nil
}

func (s *listaPrecioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListaNoEncontrada
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarCache(ctx)
	return nil
}

// invalidarCache drops the cached lista definitions used by the public price
// check. Best effort — a miss just means the next quote reads the DB.
func (s *listaPrecioService) invalidarCache(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, ListasCacheKey).Err()
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func reglasToModel(reglas []dto.ReglaHorarioInput) []model.ReglaHorario {
	out := make([]model.ReglaHorario, 0, len(reglas))
	for _, r := range reglas {
		out = append(out, model.ReglaHorario{Dia: r.Dia, Desde: r.Desde, Hasta: r.Hasta})
	}
	return out
}

func listaToResponse(l *model.ListaPrecio) *dto.ListaPrecioResponse {
	reglas := make([]dto.ReglaHorarioItem, 0, len(l.Reglas))
	for _, r := range l.Reglas {
		reglas = append(reglas, dto.ReglaHorarioItem{Dia: r.Dia, Desde: r.Desde, Hasta: r.Hasta})
	}
	categorias := make([]string, 0, len(l.CategoriasExcluidas))
	for _, id := range l.CategoriasExcluidas {
		categorias = append(categorias, id.String())
	}
	productos := make([]string, 0, len(l.ProductosExcluidos))
	for _, id := range l.ProductosExcluidos {
		productos = append(productos, id.String())
	}
	return &dto.ListaPrecioResponse{
		ID:                  l.ID.String(),
		Nombre:              l.Nombre,
		PorcentajeAjuste:    l.PorcentajeAjuste,
		ReglaRedondeo:       l.ReglaRedondeo,
		Activa:              l.Activa,
		Prioridad:           l.Prioridad,
		Reglas:              reglas,
		CategoriasExcluidas: categorias,
		ProductosExcluidos:  productos,
		CreatedAt:           l.CreatedAt.Format(time.RFC3339),
	}
}
