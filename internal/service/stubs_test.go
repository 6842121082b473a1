package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository implementations. DB() returns nil so runTx executes the
// transaction body directly.

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) seed(nombre string, precio, costo float64) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		PrecioVenta: decimal.NewFromFloat(precio),
		PrecioCosto: decimal.NewFromFloat(costo),
		Activo:      true,
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras == barcode && p.Activo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok && p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByCategoriaID(_ context.Context, categoriaID uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.CategoriaID != nil && *p.CategoriaID == categoriaID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByProveedorID(_ context.Context, proveedorID uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.ProveedorID != nil && *p.ProveedorID == proveedorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) UpdatePreciosTx(_ *gorm.DB, id uuid.UUID, nuevoCosto, nuevaVenta decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PrecioCosto = nuevoCosto
	p.PrecioVenta = nuevaVenta
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubRevisionRepo enforces the unique origen_revision_id index like Postgres
// would, so concurrency tests can observe gorm.ErrDuplicatedKey.
type stubRevisionRepo struct {
	revisiones map[uuid.UUID]*model.RevisionPrecio
	orden      []uuid.UUID
}

func newStubRevisionRepo() *stubRevisionRepo {
	return &stubRevisionRepo{revisiones: make(map[uuid.UUID]*model.RevisionPrecio)}
}

func (r *stubRevisionRepo) CreateTx(_ *gorm.DB, rev *model.RevisionPrecio) error {
	if rev.OrigenRevisionID != nil {
		for _, existente := range r.revisiones {
			if existente.OrigenRevisionID != nil && *existente.OrigenRevisionID == *rev.OrigenRevisionID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now()
	}
	r.revisiones[rev.ID] = rev
	r.orden = append(r.orden, rev.ID)
	return nil
}

func (r *stubRevisionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RevisionPrecio, error) {
	rev, ok := r.revisiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rev, nil
}

func (r *stubRevisionRepo) FindReversionPorOrigen(_ context.Context, origenID uuid.UUID) (*model.RevisionPrecio, error) {
	for _, rev := range r.revisiones {
		if rev.OrigenRevisionID != nil && *rev.OrigenRevisionID == origenID {
			return rev, nil
		}
	}
	return nil, nil
}

// List paginates newest-first like the real repository.
func (r *stubRevisionRepo) List(_ context.Context, page, limit int) ([]model.RevisionPrecio, int64, error) {
	all := make([]model.RevisionPrecio, 0, len(r.orden))
	for i := len(r.orden) - 1; i >= 0; i-- {
		all = append(all, *r.revisiones[r.orden[i]])
	}
	total := int64(len(all))
	desde := (page - 1) * limit
	if desde >= len(all) {
		return nil, total, nil
	}
	hasta := desde + limit
	if hasta > len(all) {
		hasta = len(all)
	}
	return all[desde:hasta], total, nil
}

func (r *stubRevisionRepo) FindOrigenesRevertidos(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, rev := range r.revisiones {
		if rev.OrigenRevisionID != nil {
			ids = append(ids, *rev.OrigenRevisionID)
		}
	}
	return ids, nil
}

var _ repository.RevisionPrecioRepository = (*stubRevisionRepo)(nil)

type stubListaRepo struct {
	listas map[uuid.UUID]*model.ListaPrecio
	orden  []uuid.UUID
}

func newStubListaRepo() *stubListaRepo {
	return &stubListaRepo{listas: make(map[uuid.UUID]*model.ListaPrecio)}
}

func (r *stubListaRepo) Create(_ context.Context, l *model.ListaPrecio) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	r.listas[l.ID] = l
	r.orden = append(r.orden, l.ID)
	return nil
}

func (r *stubListaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ListaPrecio, error) {
	l, ok := r.listas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubListaRepo) ListAll(_ context.Context) ([]model.ListaPrecio, error) {
	out := make([]model.ListaPrecio, 0, len(r.orden))
	for _, id := range r.orden {
		out = append(out, *r.listas[id])
	}
	return out, nil
}

func (r *stubListaRepo) Update(_ context.Context, l *model.ListaPrecio) error {
	r.listas[l.ID] = l
	return nil
}

func (r *stubListaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.listas, id)
	for i, oid := range r.orden {
		if oid == id {
			r.orden = append(r.orden[:i], r.orden[i+1:]...)
			break
		}
	}
	return nil
}

var _ repository.ListaPrecioRepository = (*stubListaRepo)(nil)

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoriaRepo) ObtenerPorNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	for _, c := range r.categorias {
		if c.Nombre == nombre {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Listar(_ context.Context) ([]model.Categoria, error) {
	out := make([]model.Categoria, 0, len(r.categorias))
	for _, c := range r.categorias {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.categorias[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) List(_ context.Context) ([]model.Proveedor, error) {
	out := make([]model.Proveedor, 0, len(r.proveedores))
	for _, p := range r.proveedores {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.proveedores[id]; ok {
		p.Activo = false
	}
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

// errListaRepo fails every call — used to assert DB-down fallbacks.
type errListaRepo struct{}

func (errListaRepo) Create(context.Context, *model.ListaPrecio) error { return errors.New("db down") }
func (errListaRepo) FindByID(context.Context, uuid.UUID) (*model.ListaPrecio, error) {
	return nil, errors.New("db down")
}
func (errListaRepo) ListAll(context.Context) ([]model.ListaPrecio, error) {
	return nil, errors.New("db down")
}
func (errListaRepo) Update(context.Context, *model.ListaPrecio) error { return errors.New("db down") }
func (errListaRepo) Delete(context.Context, uuid.UUID) error          { return errors.New("db down") }

var _ repository.ListaPrecioRepository = errListaRepo{}
