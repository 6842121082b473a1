package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/pricing"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/repository"
)

// ListasCacheKey holds the serialized lista definitions. The cache stores
// definitions, never computed prices: the final price is a function of "now",
// so caching it would freeze schedule transitions.
const ListasCacheKey = "listas_precios:cache"

const listasCacheTTL = 60 * time.Second

var ErrProductoNoEncontrado = errors.New("producto no encontrado")

// PrecioService quotes the checkout price of a product: resolve the lista
// active right now, then run the calculator over the product.
type PrecioService interface {
	ConsultarPorBarcode(ctx context.Context, barcode string) (*dto.ConsultaPrecioResponse, error)
}

type precioService struct {
	productoRepo repository.ProductoRepository
	listaRepo    repository.ListaPrecioRepository
	rdb          *redis.Client
}

func NewPrecioService(productoRepo repository.ProductoRepository, listaRepo repository.ListaPrecioRepository, rdb *redis.Client) PrecioService {
	return &precioService{productoRepo: productoRepo, listaRepo: listaRepo, rdb: rdb}
}

func (s *precioService) ConsultarPorBarcode(ctx context.Context, barcode string) (*dto.ConsultaPrecioResponse, error) {
	producto, err := s.productoRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}

	listas, err := s.cargarListas(ctx)
	if err != nil {
		return nil, err
	}

	activa := pricing.ResolverListaActiva(listas, time.Now())
	final := pricing.CalcularPrecio(producto, activa)

	resp := &dto.ConsultaPrecioResponse{
		Nombre:          producto.Nombre,
		PrecioBase:      producto.PrecioVenta,
		PrecioFinal:     final,
		StockDisponible: producto.StockActual,
	}
	if activa != nil && !final.Equal(producto.PrecioVenta) {
		resp.ListaAplicada = &activa.Nombre
	}
	return resp, nil
}

// cargarListas reads lista definitions through the Redis cache when one is
// configured. Cache failures fall back to the DB — quoting must keep working
// with Redis down.
func (s *precioService) cargarListas(ctx context.Context) ([]model.ListaPrecio, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ListasCacheKey).Bytes(); err == nil {
			var listas []model.ListaPrecio
			if jsonErr := json.Unmarshal(cached, &listas); jsonErr == nil {
				return listas, nil
			}
		}
	}

	listas, err := s.listaRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(listas); jsonErr == nil {
			_ = s.rdb.Set(ctx, ListasCacheKey, b, listasCacheTTL).Err()
		}
	}
	return listas, nil
}
