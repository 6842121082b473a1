package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

// RevisionPrecioRepository persists the append-only bulk-revision audit log.
// Records are immutable: there is deliberately no Update or Delete.
type RevisionPrecioRepository interface {
	CreateTx(tx *gorm.DB, r *model.RevisionPrecio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RevisionPrecio, error)
	// FindReversionPorOrigen returns the reversion record pointing at the
	// given aplicacion, or nil when it has not been reverted.
	FindReversionPorOrigen(ctx context.Context, origenID uuid.UUID) (*model.RevisionPrecio, error)
	List(ctx context.Context, page, limit int) ([]model.RevisionPrecio, int64, error)
	// FindOrigenesRevertidos returns every origen_revision_id present in the
	// table, so revertibility can be computed across pages.
	FindOrigenesRevertidos(ctx context.Context) ([]uuid.UUID, error)
}

type revisionPrecioRepo struct{ db *gorm.DB }

func NewRevisionPrecioRepository(db *gorm.DB) RevisionPrecioRepository {
	return &revisionPrecioRepo{db: db}
}

func (r *revisionPrecioRepo) CreateTx(tx *gorm.DB, rev *model.RevisionPrecio) error {
	return tx.Create(rev).Error
}

func (r *revisionPrecioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RevisionPrecio, error) {
	var rev model.RevisionPrecio
	err := r.db.WithContext(ctx).First(&rev, id).Error
	return &rev, err
}

func (r *revisionPrecioRepo) FindReversionPorOrigen(ctx context.Context, origenID uuid.UUID) (*model.RevisionPrecio, error) {
	var rev model.RevisionPrecio
	err := r.db.WithContext(ctx).Where("origen_revision_id = ?", origenID).First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// List returns revisions newest-first (append-only table, natural audit order).
// page/limit are assumed already normalized by the caller.
func (r *revisionPrecioRepo) List(ctx context.Context, page, limit int) ([]model.RevisionPrecio, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.RevisionPrecio{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.RevisionPrecio
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// FindOrigenesRevertidos returns the origen_revision_id of every reversion in
// the table, regardless of pagination. The set is what decides whether an
// aplicacion is still revertible.
func (r *revisionPrecioRepo) FindOrigenesRevertidos(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.RevisionPrecio{}).
		Where("origen_revision_id IS NOT NULL").
		Pluck("origen_revision_id", &ids).Error
	return ids, err
}
