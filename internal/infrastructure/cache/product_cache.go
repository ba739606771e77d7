package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jcastellr/gestion-api/internal/application/usecase"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/pkg/logger"
)

var _ usecase.ProductCache = (*ProductCache)(nil)

// ProductCache caché read-through de productos sobre Redis. Los errores de
// Redis nunca se propagan: un fallo del caché degrada a leer de la base.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewProductCache construye el caché. Hace ping para validar la conexión.
func NewProductCache(ctx context.Context, addr, password string, db int, ttl time.Duration, log *logger.Logger) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &ProductCache{client: client, ttl: ttl, log: log}, nil
}

func key(id string) string { return "producto:" + id }

// Get busca el producto en Redis. (nil, false) en miss o error.
func (c *ProductCache) Get(ctx context.Context, id string) (*entity.Product, bool) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("producto_id", id).Msg("cache get falló")
		}
		return nil, false
	}
	var p entity.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Warn().Err(err).Str("producto_id", id).Msg("cache entry corrupta, descartando")
		c.client.Del(ctx, key(id))
		return nil, false
	}
	return &p, true
}

// Set guarda el producto con TTL.
func (c *ProductCache) Set(ctx context.Context, product *entity.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(product.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("producto_id", product.ID).Msg("cache set falló")
	}
}

// Invalidate elimina la entrada tras una escritura del producto.
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("producto_id", id).Msg("cache invalidate falló")
	}
}

// Close cierra la conexión a Redis.
func (c *ProductCache) Close() error { return c.client.Close() }
