package inventory

import (
	"context"
	"errors"

	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// SyncUseCase sincroniza las sesiones de conteo capturadas sin conexión.
// La cola local es durable y la subida es at-least-once: un reintento sobre una
// sesión ya almacenada se rechaza como duplicado y solo se marca como
// sincronizada, nunca se almacena dos veces.
type SyncUseCase struct {
	queue       SessionQueue
	sessionRepo repository.CountSessionRepository
}

// NewSyncUseCase construye el caso de uso.
func NewSyncUseCase(queue SessionQueue, sessionRepo repository.CountSessionRepository) *SyncUseCase {
	return &SyncUseCase{queue: queue, sessionRepo: sessionRepo}
}

// EnqueueOffline guarda una sesión capturada sin conexión en la cola local.
// La sesión queda con Synced=false hasta que Sync la suba; no puede aplicarse
// mientras tanto.
func (uc *SyncUseCase) EnqueueOffline(ctx context.Context, session *entity.CountSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}
	session.Synced = false
	return uc.queue.Enqueue(ctx, session)
}

// Sync drena las sesiones pendientes de la empresa indicada y sube cada una.
// Las sesiones de otras empresas permanecen intactas en la cola: quien
// sincroniza solo arrastra lo suyo. Devuelve cuántas se subieron y cuántas se
// descartaron por duplicado. Se dispara al recuperar conexión y es seguro
// reintentarla.
func (uc *SyncUseCase) Sync(ctx context.Context, companyID string) (uploaded, duplicates int, err error) {
	if companyID == "" {
		return 0, 0, domain.ErrInvalidInput
	}
	pending, err := uc.queue.Pending(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, session := range pending {
		if session.CompanyID != companyID {
			continue
		}
		existing, err := uc.sessionRepo.GetByID(session.ID)
		if err != nil {
			return uploaded, duplicates, err
		}
		if existing != nil {
			// Ya subida en un intento anterior: rechazar el duplicado.
			duplicates++
			if err := uc.queue.MarkSynced(ctx, session.ID); err != nil {
				return uploaded, duplicates, err
			}
			continue
		}

		session.Synced = true
		if err := uc.sessionRepo.Create(session); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				duplicates++
				if err := uc.queue.MarkSynced(ctx, session.ID); err != nil {
					return uploaded, duplicates, err
				}
				continue
			}
			session.Synced = false
			return uploaded, duplicates, err
		}
		if err := uc.queue.MarkSynced(ctx, session.ID); err != nil {
			return uploaded, duplicates, err
		}
		uploaded++
	}
	return uploaded, duplicates, nil
}
