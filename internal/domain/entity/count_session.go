package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/domain"
)

// Estados de una sesión de conteo físico.
const (
	CountStatusInProgress = "IN_PROGRESS"
	CountStatusConcluded  = "CONCLUDED"
	CountStatusApplied    = "APPLIED"
)

// CountLine es una línea de conteo: cantidad esperada (capturada del stock al
// momento de registrar la línea) y cantidad contada por el usuario.
// Los productos sin cantidad contada no generan línea (no se guardan como cero).
type CountLine struct {
	ID         string
	SessionID  string
	ProductID  string
	LocationID string
	Expected   decimal.Decimal // stock según sistema al registrar la línea
	Counted    decimal.Decimal // cantidad física contada (>= 0)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Difference devuelve contado menos esperado.
func (l CountLine) Difference() decimal.Decimal {
	return l.Counted.Sub(l.Expected)
}

// CountSession es una sesión de conteo físico de inventario.
// LocationID vacío significa conteo de todas las bodegas de la empresa.
// Ciclo de vida: IN_PROGRESS -> CONCLUDED -> APPLIED (terminal).
// Una vez aplicada, la sesión y sus líneas son inmutables y no puede
// volver a aplicarse.
type CountSession struct {
	ID          string
	CompanyID   string
	LocationID  string // vacío = todas las bodegas
	Status      string
	Synced      bool // false mientras esté solo en la cola local offline
	CreatedBy   string
	CreatedAt   time.Time
	ConcludedAt *time.Time
	AppliedAt   *time.Time
	AppliedBy   string
	Lines       []CountLine
}

// NewCountSession crea una sesión en estado IN_PROGRESS.
func NewCountSession(id, companyID, locationID, createdBy string, now time.Time) (*CountSession, error) {
	if id == "" || companyID == "" || createdBy == "" {
		return nil, domain.ErrInvalidInput
	}
	return &CountSession{
		ID:         id,
		CompanyID:  companyID,
		LocationID: locationID,
		Status:     CountStatusInProgress,
		Synced:     true,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		Lines:      make([]CountLine, 0),
	}, nil
}

// RecordLine registra o actualiza la cantidad contada de un producto en una bodega.
// Rechaza cantidades negativas en la captura (nunca en la aplicación) y solo
// permite escribir mientras la sesión está IN_PROGRESS. Expected se captura al
// registrar la línea por primera vez y no se pisa en correcciones posteriores,
// para tolerar sesiones largas sin que el valor esperado derive a mitad de conteo.
func (s *CountSession) RecordLine(productID, locationID string, expected, counted decimal.Decimal, now time.Time) error {
	if s.Status != CountStatusInProgress {
		return domain.ErrConflict
	}
	if productID == "" || locationID == "" {
		return domain.ErrInvalidInput
	}
	if counted.IsNegative() {
		return domain.ErrInvalidInput
	}
	if s.LocationID != "" && locationID != s.LocationID {
		return domain.ErrInvalidInput
	}
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID && s.Lines[i].LocationID == locationID {
			s.Lines[i].Counted = counted
			s.Lines[i].UpdatedAt = now
			return nil
		}
	}
	s.Lines = append(s.Lines, CountLine{
		SessionID:  s.ID,
		ProductID:  productID,
		LocationID: locationID,
		Expected:   expected,
		Counted:    counted,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	return nil
}

// Conclude cierra la captura. Requiere al menos una línea.
func (s *CountSession) Conclude(now time.Time) error {
	if s.Status == CountStatusApplied {
		return domain.ErrAlreadyApplied
	}
	if s.Status != CountStatusInProgress {
		return domain.ErrConflict
	}
	if len(s.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	s.Status = CountStatusConcluded
	s.ConcludedAt = &now
	return nil
}

// MarkApplied marca la sesión como aplicada. Solo válido desde CONCLUDED;
// reintentar sobre una sesión APPLIED devuelve ErrAlreadyApplied para que el
// caller distinga el reintento de una aplicación exitosa.
func (s *CountSession) MarkApplied(appliedBy string, now time.Time) error {
	if s.Status == CountStatusApplied {
		return domain.ErrAlreadyApplied
	}
	if s.Status != CountStatusConcluded {
		return domain.ErrConflict
	}
	s.Status = CountStatusApplied
	s.AppliedAt = &now
	s.AppliedBy = appliedBy
	return nil
}
