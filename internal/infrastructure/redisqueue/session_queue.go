// Package redisqueue implementa la cola offline de sesiones de conteo sobre Redis.
package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
)

const defaultKey = "almacen:count_sessions:pending"

var _ inventory.SessionQueue = (*SessionQueue)(nil)

// SessionQueue cola durable de sesiones capturadas sin conexión, sobre un hash
// de Redis (campo = ID de sesión, valor = sesión en JSON). El hash sobrevive a
// reinicios del proceso; MarkSynced elimina el campo tras subir la sesión.
type SessionQueue struct {
	client *redis.Client
	key    string
}

// New construye la cola y verifica la conexión.
func New(addr, password string, db int) (*SessionQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectando a redis: %w", err)
	}
	return &SessionQueue{client: client, key: defaultKey}, nil
}

// NewWithClient construye la cola sobre un cliente existente (tests).
func NewWithClient(client *redis.Client, key string) *SessionQueue {
	if key == "" {
		key = defaultKey
	}
	return &SessionQueue{client: client, key: key}
}

// Enqueue guarda la sesión en la cola. Re-encolar el mismo ID sobreescribe el
// payload, lo que permite guardar correcciones hechas antes de recuperar señal.
func (q *SessionQueue) Enqueue(ctx context.Context, session *entity.CountSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("serializando sesión: %w", err)
	}
	if err := q.client.HSet(ctx, q.key, session.ID, payload).Err(); err != nil {
		return fmt.Errorf("encolando sesión: %w", err)
	}
	return nil
}

// Pending devuelve todas las sesiones aún no sincronizadas.
func (q *SessionQueue) Pending(ctx context.Context) ([]*entity.CountSession, error) {
	values, err := q.client.HGetAll(ctx, q.key).Result()
	if err != nil {
		return nil, fmt.Errorf("leyendo cola: %w", err)
	}
	sessions := make([]*entity.CountSession, 0, len(values))
	for id, payload := range values {
		var s entity.CountSession
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return nil, fmt.Errorf("deserializando sesión %s: %w", id, err)
		}
		sessions = append(sessions, &s)
	}
	return sessions, nil
}

// MarkSynced retira la sesión de la cola una vez subida al servidor.
func (q *SessionQueue) MarkSynced(ctx context.Context, sessionID string) error {
	if err := q.client.HDel(ctx, q.key, sessionID).Err(); err != nil {
		return fmt.Errorf("retirando sesión de la cola: %w", err)
	}
	return nil
}

// Close cierra el cliente de Redis.
func (q *SessionQueue) Close() error {
	return q.client.Close()
}
