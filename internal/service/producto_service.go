package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/repository"
)

var (
	ErrBarcodeDuplicado = errors.New("ya existe un producto con ese codigo de barras")
	ErrPrecioNegativo   = errors.New("los precios no pueden ser negativos")
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo          repository.ProductoRepository
	categoriaRepo repository.CategoriaRepository
	proveedorRepo repository.ProveedorRepository
}

func NewProductoService(
	repo repository.ProductoRepository,
	categoriaRepo repository.CategoriaRepository,
	proveedorRepo repository.ProveedorRepository,
) ProductoService {
	return &productoService{repo: repo, categoriaRepo: categoriaRepo, proveedorRepo: proveedorRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.PrecioCosto.IsNegative() || req.PrecioVenta.IsNegative() {
		return nil, ErrPrecioNegativo
	}

	categoriaID, err := s.resolverCategoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}
	proveedorID, err := s.resolverProveedor(ctx, req.ProveedorID)
	if err != nil {
		return nil, err
	}

	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}

	p := &model.Producto{
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		CategoriaID:  categoriaID,
		ProveedorID:  proveedorID,
		PrecioCosto:  req.PrecioCosto,
		PrecioVenta:  req.PrecioVenta,
		StockActual:  req.StockActual,
		UnidadMedida: unidad,
		Activo:       true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBarcodeDuplicado
		}
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		categoriaID, err := s.resolverCategoria(ctx, req.CategoriaID)
		if err != nil {
			return nil, err
		}
		p.CategoriaID = categoriaID
	}
	if req.ProveedorID != nil {
		proveedorID, err := s.resolverProveedor(ctx, req.ProveedorID)
		if err != nil {
			return nil, err
		}
		p.ProveedorID = proveedorID
	}
	if req.PrecioCosto != nil {
		if req.PrecioCosto.IsNegative() {
			return nil, ErrPrecioNegativo
		}
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		if req.PrecioVenta.IsNegative() {
			return nil, ErrPrecioNegativo
		}
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.UnidadMedida != nil {
		p.UnidadMedida = *req.UnidadMedida
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductoNoEncontrado
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductoNoEncontrado
		}
		return err
	}
	return s.repo.Reactivar(ctx, id)
}

// resolverCategoria parses and validates an optional categoria id reference.
func (s *productoService) resolverCategoria(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, errors.New("categoria_id invalido")
	}
	if _, err := s.categoriaRepo.ObtenerPorID(ctx, id); err != nil {
		return nil, ErrCategoriaNoEncontrada
	}
	return &id, nil
}

func (s *productoService) resolverProveedor(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, errors.New("proveedor_id invalido")
	}
	if _, err := s.proveedorRepo.FindByID(ctx, id); err != nil {
		return nil, ErrProveedorNoEncontrado
	}
	return &id, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		PrecioCosto:  p.PrecioCosto,
		PrecioVenta:  p.PrecioVenta,
		StockActual:  p.StockActual,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
	}
	if p.CategoriaID != nil {
		s := p.CategoriaID.String()
		resp.CategoriaID = &s
	}
	if p.ProveedorID != nil {
		s := p.ProveedorID.String()
		resp.ProveedorID = &s
	}
	return resp
}
