package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// CountSessionUseCase captura conteos físicos de inventario: crear sesión,
// registrar líneas y concluir. La cantidad esperada de cada línea se captura
// del stock al momento de registrarla (capture-at-entry), no al concluir.
type CountSessionUseCase struct {
	sessionRepo  repository.CountSessionRepository
	stockRepo    repository.StockRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewCountSessionUseCase construye el caso de uso.
func NewCountSessionUseCase(
	sessionRepo repository.CountSessionRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *CountSessionUseCase {
	return &CountSessionUseCase{
		sessionRepo:  sessionRepo,
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// CreateSession crea una sesión IN_PROGRESS. locationID vacío = todas las bodegas.
func (uc *CountSessionUseCase) CreateSession(ctx context.Context, companyID, userID, locationID string) (*entity.CountSession, error) {
	if locationID != "" {
		loc, err := uc.locationRepo.GetByID(locationID)
		if err != nil {
			return nil, err
		}
		if loc == nil || loc.CompanyID != companyID {
			return nil, domain.ErrLocationNotFound
		}
	}
	session, err := entity.NewCountSession(uuid.New().String(), companyID, locationID, userID, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// RecordLine registra la cantidad contada de un producto en una bodega.
// Captura Expected del stock actual la primera vez que se registra la línea.
// Cantidades negativas se rechazan aquí, en la frontera de entrada, nunca al aplicar.
func (uc *CountSessionUseCase) RecordLine(ctx context.Context, companyID, sessionID string, in dto.RecordCountLineRequest) (*entity.CountSession, error) {
	session, err := uc.getOwned(companyID, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive || product.CompanyID != companyID {
		return nil, domain.ErrProductNotFound
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrLocationNotFound
	}

	stock, err := uc.stockRepo.Get(in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}

	if err := session.RecordLine(in.ProductID, in.LocationID, stock.Quantity, in.Counted, time.Now()); err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Conclude cierra la captura de la sesión (IN_PROGRESS -> CONCLUDED).
func (uc *CountSessionUseCase) Conclude(ctx context.Context, companyID, sessionID string) (*entity.CountSession, error) {
	session, err := uc.getOwned(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Conclude(time.Now()); err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get devuelve una sesión con sus líneas.
func (uc *CountSessionUseCase) Get(ctx context.Context, companyID, sessionID string) (*entity.CountSession, error) {
	return uc.getOwned(companyID, sessionID)
}

// List lista sesiones de la empresa, opcionalmente filtradas por estado.
func (uc *CountSessionUseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.CountSession, error) {
	return uc.sessionRepo.ListByCompany(companyID, status, limit, offset)
}

func (uc *CountSessionUseCase) getOwned(companyID, sessionID string) (*entity.CountSession, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if session.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return session, nil
}

// ToSessionResponse convierte la entidad al DTO de la API.
func ToSessionResponse(s *entity.CountSession) *dto.CountSessionResponse {
	lines := make([]dto.CountLineDTO, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.CountLineDTO{
			ProductID:  l.ProductID,
			LocationID: l.LocationID,
			Expected:   l.Expected,
			Counted:    l.Counted,
			Difference: l.Difference(),
		})
	}
	return &dto.CountSessionResponse{
		ID:          s.ID,
		LocationID:  s.LocationID,
		Status:      s.Status,
		Synced:      s.Synced,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		ConcludedAt: s.ConcludedAt,
		AppliedAt:   s.AppliedAt,
		AppliedBy:   s.AppliedBy,
		Lines:       lines,
	}
}
