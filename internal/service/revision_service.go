package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/pricing"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/repository"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/worker"
)

// Errores de revisión — the handler maps each to a distinct HTTP status so
// the UI can tell "nothing to revert" from "already reverted" from "not found".
var (
	ErrPorcentajeInvalido    = errors.New("el porcentaje debe ser mayor a cero")
	ErrFiltroInvalido        = errors.New("debe indicarse exactamente un filtro: productos, categoria o proveedor")
	ErrFiltroSinProductos    = errors.New("ningun producto coincide con el filtro")
	ErrCategoriaNoEncontrada = errors.New("categoria no encontrada")
	ErrProveedorNoEncontrado = errors.New("proveedor no encontrado")
	ErrRevisionNoEncontrada  = errors.New("revision no encontrada")
	ErrRevisionNoReversible  = errors.New("la revision no es una aplicacion: no hay nada que revertir")
	ErrRevisionYaRevertida   = errors.New("la revision ya fue revertida")
)

// RevisionService applies percentage price changes to many products at once
// and keeps the reversible audit trail of every such operation.
type RevisionService interface {
	Aplicar(ctx context.Context, actor string, req dto.AplicarRevisionRequest) (*dto.RevisionResponse, error)
	Previsualizar(ctx context.Context, req dto.AplicarRevisionRequest) (*dto.PreviewRevisionResponse, error)
	Revertir(ctx context.Context, actor string, revisionID uuid.UUID) (*dto.RevisionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.RevisionResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.RevisionListResponse, error)
}

type revisionService struct {
	repo          repository.RevisionPrecioRepository
	productoRepo  repository.ProductoRepository
	listaRepo     repository.ListaPrecioRepository
	categoriaRepo repository.CategoriaRepository
	proveedorRepo repository.ProveedorRepository
	dispatcher    *worker.Dispatcher
}

func NewRevisionService(
	repo repository.RevisionPrecioRepository,
	productoRepo repository.ProductoRepository,
	listaRepo repository.ListaPrecioRepository,
	categoriaRepo repository.CategoriaRepository,
	proveedorRepo repository.ProveedorRepository,
	dispatcher *worker.Dispatcher,
) RevisionService {
	return &revisionService{
		repo:          repo,
		productoRepo:  productoRepo,
		listaRepo:     listaRepo,
		categoriaRepo: categoriaRepo,
		proveedorRepo: proveedorRepo,
		dispatcher:    dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// resolverFiltro validates that exactly one filter mode is present and
// returns the matched active products. Everything here runs before any
// mutation — an invalid request never creates partial state.
func (s *revisionService) resolverFiltro(ctx context.Context, req dto.AplicarRevisionRequest) ([]model.Producto, error) {
	modos := 0
	if len(req.ProductoIDs) > 0 {
		modos++
	}
	if req.CategoriaID != nil {
		modos++
	}
	if req.ProveedorID != nil {
		modos++
	}
	if modos != 1 {
		return nil, ErrFiltroInvalido
	}

	var productos []model.Producto
	switch {
	case len(req.ProductoIDs) > 0:
		ids := make([]uuid.UUID, 0, len(req.ProductoIDs))
		for _, raw := range req.ProductoIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("producto_id invalido: %w", err)
			}
			ids = append(ids, id)
		}
		var err error
		productos, err = s.productoRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

	case req.CategoriaID != nil:
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id invalido: %w", err)
		}
		if _, err := s.categoriaRepo.ObtenerPorID(ctx, catID); err != nil {
			return nil, ErrCategoriaNoEncontrada
		}
		productos, err = s.productoRepo.FindByCategoriaID(ctx, catID)
		if err != nil {
			return nil, err
		}

	default:
		provID, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id invalido: %w", err)
		}
		if _, err := s.proveedorRepo.FindByID(ctx, provID); err != nil {
			return nil, ErrProveedorNoEncontrado
		}
		productos, err = s.productoRepo.FindByProveedorID(ctx, provID)
		if err != nil {
			return nil, err
		}
	}

	if len(productos) == 0 {
		return nil, ErrFiltroSinProductos
	}
	return productos, nil
}

// ── Aplicar ───────────────────────────────────────────────────────────────────
// One ACID transaction: every matched product's price update and the single
// audit record succeed together, or the whole operation rolls back. No
// category/product exclusions apply — bulk revision is a blunt instrument,
// independent of the scheduled-list mechanism.

func (s *revisionService) Aplicar(ctx context.Context, actor string, req dto.AplicarRevisionRequest) (*dto.RevisionResponse, error) {
	if !req.Porcentaje.IsPositive() {
		return nil, ErrPorcentajeInvalido
	}
	productos, err := s.resolverFiltro(ctx, req)
	if err != nil {
		return nil, err
	}

	factor := decimal.NewFromInt(1).Add(req.Porcentaje.Div(decimal.NewFromInt(100)))

	var revision model.RevisionPrecio
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		afectados := make([]model.ProductoAfectado, 0, len(productos))
		for _, p := range productos {
			nuevoPrecio := pricing.RedondeoMoneda(p.PrecioVenta.Mul(factor))
			nuevoCosto := p.PrecioCosto
			if req.IncluirCosto {
				nuevoCosto = pricing.RedondeoMoneda(p.PrecioCosto.Mul(factor))
			}
			if err := s.productoRepo.UpdatePreciosTx(tx, p.ID, nuevoCosto, nuevoPrecio); err != nil {
				return err
			}
			afectados = append(afectados, model.ProductoAfectado{
				ProductoID:    p.ID,
				PrecioAntes:   p.PrecioVenta,
				CostoAntes:    p.PrecioCosto,
				PrecioDespues: nuevoPrecio,
				CostoDespues:  nuevoCosto,
			})
		}

		revision = model.RevisionPrecio{
			TipoAccion:  model.AccionAplicar,
			Descripcion: fmt.Sprintf("+%s%% sobre %d productos", req.Porcentaje.String(), len(productos)),
			Usuario:     actor,
			Porcentaje:  req.Porcentaje,
			Afectados:   afectados,
		}
		return s.repo.CreateTx(tx, &revision)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("revision_id", revision.ID.String()).
		Str("usuario", actor).
		Int("productos", len(revision.Afectados)).
		Str("porcentaje", req.Porcentaje.String()).
		Msg("revision masiva aplicada")

	// Async report + notification — best effort, fire & forget
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReporte(ctx, worker.ReporteJobPayload{RevisionID: revision.ID.String()})
	}

	return revisionToResponse(&revision), nil
}

// ── Previsualizar ─────────────────────────────────────────────────────────────
// Same validation and arithmetic as Aplicar, but read-only. Each row also
// carries the checkout price the new base would produce under the lista
// currently resolved active, so the operator previews the real effect.

func (s *revisionService) Previsualizar(ctx context.Context, req dto.AplicarRevisionRequest) (*dto.PreviewRevisionResponse, error) {
	if !req.Porcentaje.IsPositive() {
		return nil, ErrPorcentajeInvalido
	}
	productos, err := s.resolverFiltro(ctx, req)
	if err != nil {
		return nil, err
	}

	var activa *model.ListaPrecio
	if s.listaRepo != nil {
		if listas, err := s.listaRepo.ListAll(ctx); err == nil {
			activa = pricing.ResolverListaActiva(listas, time.Now())
		}
	}

	factor := decimal.NewFromInt(1).Add(req.Porcentaje.Div(decimal.NewFromInt(100)))
	resp := &dto.PreviewRevisionResponse{
		Porcentaje:         req.Porcentaje,
		ProductosAfectados: len(productos),
		Preview:            make([]dto.PrecioPreviewItem, 0, len(productos)),
	}
	if activa != nil {
		resp.ListaActiva = &activa.Nombre
	}

	for _, p := range productos {
		nuevoPrecio := pricing.RedondeoMoneda(p.PrecioVenta.Mul(factor))
		nuevoCosto := p.PrecioCosto
		if req.IncluirCosto {
			nuevoCosto = pricing.RedondeoMoneda(p.PrecioCosto.Mul(factor))
		}

		proyectado := p
		proyectado.PrecioVenta = nuevoPrecio

		resp.Preview = append(resp.Preview, dto.PrecioPreviewItem{
			ProductoID:        p.ID.String(),
			Nombre:            p.Nombre,
			PrecioActual:      p.PrecioVenta,
			PrecioNuevo:       nuevoPrecio,
			CostoActual:       p.PrecioCosto,
			CostoNuevo:        nuevoCosto,
			PrecioConListaHoy: pricing.CalcularPrecio(&proyectado, activa),
		})
	}
	return resp, nil
}

// ── Revertir ──────────────────────────────────────────────────────────────────
// Restores the snapshotted values verbatim — never a recomputation — so the
// round-trip is exact even when intervening edits changed rounding inputs.
// Products deleted since the apply are skipped and recorded as discrepancies;
// a partial revert with an audit trail beats blocking the whole operation.

func (s *revisionService) Revertir(ctx context.Context, actor string, revisionID uuid.UUID) (*dto.RevisionResponse, error) {
	origen, err := s.repo.FindByID(ctx, revisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevisionNoEncontrada
		}
		return nil, err
	}
	if origen.TipoAccion != model.AccionAplicar {
		return nil, ErrRevisionNoReversible
	}
	existente, err := s.repo.FindReversionPorOrigen(ctx, origen.ID)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, ErrRevisionYaRevertida
	}

	var reversion model.RevisionPrecio
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		afectados := make([]model.ProductoAfectado, 0, len(origen.Afectados))
		var discrepancias []string

		for _, a := range origen.Afectados {
			actual, err := s.productoRepo.FindByIDTx(tx, a.ProductoID)
			if err != nil {
				discrepancias = append(discrepancias,
					fmt.Sprintf("producto %s no encontrado, restauracion omitida", a.ProductoID))
				continue
			}
			// The "antes" side captures the state being undone (the product's
			// actual current values, which may differ from the applied ones if
			// it was edited in between), so the reversion is itself auditable.
			// Copied before the update: the repo may hand back a live object.
			precioAntes := actual.PrecioVenta
			costoAntes := actual.PrecioCosto
			if err := s.productoRepo.UpdatePreciosTx(tx, a.ProductoID, a.CostoAntes, a.PrecioAntes); err != nil {
				return err
			}
			afectados = append(afectados, model.ProductoAfectado{
				ProductoID:    a.ProductoID,
				PrecioAntes:   precioAntes,
				CostoAntes:    costoAntes,
				PrecioDespues: a.PrecioAntes,
				CostoDespues:  a.CostoAntes,
			})
		}

		origenID := origen.ID
		reversion = model.RevisionPrecio{
			TipoAccion:       model.AccionRevertir,
			Descripcion:      fmt.Sprintf("Reversion de: %s", origen.Descripcion),
			Usuario:          actor,
			Porcentaje:       origen.Porcentaje.Neg(),
			OrigenRevisionID: &origenID,
			Afectados:        afectados,
			Discrepancias:    discrepancias,
		}
		return s.repo.CreateTx(tx, &reversion)
	})
	if txErr != nil {
		// The unique index on origen_revision_id is the last line of defense
		// against two concurrent reverts of the same aplicacion.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrRevisionYaRevertida
		}
		return nil, txErr
	}

	log.Info().
		Str("revision_id", reversion.ID.String()).
		Str("origen_id", origen.ID.String()).
		Str("usuario", actor).
		Int("restaurados", len(reversion.Afectados)).
		Int("discrepancias", len(reversion.Discrepancias)).
		Msg("revision masiva revertida")

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReporte(ctx, worker.ReporteJobPayload{RevisionID: reversion.ID.String()})
	}

	return revisionToResponse(&reversion), nil
}

func (s *revisionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.RevisionResponse, error) {
	rev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevisionNoEncontrada
		}
		return nil, err
	}
	return revisionToResponse(rev), nil
}

func (s *revisionService) Listar(ctx context.Context, page, limit int) (*dto.RevisionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	// Aplicaciones that already have a reversion pointing at them are not
	// revertible again; the UI greys them out based on this flag. The set is
	// computed over the whole table — the reversion may sit on another page.
	origenes, err := s.repo.FindOrigenesRevertidos(ctx)
	if err != nil {
		return nil, err
	}
	revertidas := make(map[uuid.UUID]bool, len(origenes))
	for _, id := range origenes {
		revertidas[id] = true
	}

	data := make([]dto.RevisionListItem, 0, len(rows))
	for _, r := range rows {
		item := dto.RevisionListItem{
			ID:                r.ID.String(),
			TipoAccion:        r.TipoAccion,
			Descripcion:       r.Descripcion,
			Usuario:           r.Usuario,
			Porcentaje:        r.Porcentaje,
			CantidadAfectados: len(r.Afectados),
			Revertible:        r.TipoAccion == model.AccionAplicar && !revertidas[r.ID],
			CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		}
		if r.OrigenRevisionID != nil {
			s := r.OrigenRevisionID.String()
			item.OrigenRevisionID = &s
		}
		data = append(data, item)
	}

	return &dto.RevisionListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func revisionToResponse(r *model.RevisionPrecio) *dto.RevisionResponse {
	afectados := make([]dto.ProductoAfectadoItem, 0, len(r.Afectados))
	for _, a := range r.Afectados {
		afectados = append(afectados, dto.ProductoAfectadoItem{
			ProductoID:    a.ProductoID.String(),
			PrecioAntes:   a.PrecioAntes,
			CostoAntes:    a.CostoAntes,
			PrecioDespues: a.PrecioDespues,
			CostoDespues:  a.CostoDespues,
		})
	}
	resp := &dto.RevisionResponse{
		ID:            r.ID.String(),
		TipoAccion:    r.TipoAccion,
		Descripcion:   r.Descripcion,
		Usuario:       r.Usuario,
		Porcentaje:    r.Porcentaje,
		Afectados:     afectados,
		Discrepancias: r.Discrepancias,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.OrigenRevisionID != nil {
		s := r.OrigenRevisionID.String()
		resp.OrigenRevisionID = &s
	}
	return resp
}
