// Package journal remembers "arqueo persisted, cierre pending" markers in
// Redis. The backend close is two non-transactional writes; when the second
// one fails the record is already persisted, so a retried close must skip
// the persist step instead of submitting a duplicate record. The marker is
// that skip signal.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "arqueo:persistido:"
	// Markers outlive any realistic retry window; a till left half-closed
	// for longer than this needs manual intervention anyway.
	markerTTL = 24 * time.Hour
)

// Journal is implemented by RedisJournal in production and by in-memory
// fakes in tests.
type Journal interface {
	MarcarRegistrado(ctx context.Context, movimientoID int64) error
	Registrado(ctx context.Context, movimientoID int64) (bool, error)
	Limpiar(ctx context.Context, movimientoID int64) error
}

// Noop remembers nothing. Used by the CLI, where a retried close
// re-persists the record and relies on the backend's duplicate handling.
type Noop struct{}

func (Noop) MarcarRegistrado(context.Context, int64) error { return nil }
func (Noop) Registrado(context.Context, int64) (bool, error) { return false, nil }
func (Noop) Limpiar(context.Context, int64) error { return nil }

type RedisJournal struct {
	rdb *redis.Client
}

func NewRedisJournal(rdb *redis.Client) *RedisJournal {
	return &RedisJournal{rdb: rdb}
}

func key(movimientoID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, movimientoID)
}

// MarcarRegistrado records that the arqueo record for the movimiento was
// persisted but the movimiento is not yet cerrado.
func (j *RedisJournal) MarcarRegistrado(ctx context.Context, movimientoID int64) error {
	return j.rdb.Set(ctx, key(movimientoID), time.Now().UTC().Format(time.RFC3339), markerTTL).Err()
}

// Registrado reports whether a persisted-but-unclosed marker exists.
func (j *RedisJournal) Registrado(ctx context.Context, movimientoID int64) (bool, error) {
	n, err := j.rdb.Exists(ctx, key(movimientoID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Limpiar removes the marker after a successful cierre.
func (j *RedisJournal) Limpiar(ctx context.Context, movimientoID int64) error {
	return j.rdb.Del(ctx, key(movimientoID)).Err()
}
