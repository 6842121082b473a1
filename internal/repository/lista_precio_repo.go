package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

// ListaPrecioRepository is the data access contract for listas de precios.
type ListaPrecioRepository interface {
	Create(ctx context.Context, l *model.ListaPrecio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ListaPrecio, error)
	// ListAll returns every lista in creation order — the resolver depends on
	// that ordering for its deterministic tie-break.
	ListAll(ctx context.Context) ([]model.ListaPrecio, error)
	Update(ctx context.Context, l *model.ListaPrecio) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type listaPrecioRepo struct{ db *gorm.DB }

func NewListaPrecioRepository(db *gorm.DB) ListaPrecioRepository {
	return &listaPrecioRepo{db: db}
}

func (r *listaPrecioRepo) Create(ctx context.Context, l *model.ListaPrecio) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listaPrecioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ListaPrecio, error) {
	var l model.ListaPrecio
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *listaPrecioRepo) ListAll(ctx context.Context) ([]model.ListaPrecio, error) {
	var listas []model.ListaPrecio
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&listas).Error
	return listas, err
}

func (r *listaPrecioRepo) Update(ctx context.Context, l *model.ListaPrecio) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *listaPrecioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ListaPrecio{}, id).Error
}
