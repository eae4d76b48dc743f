package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para bodegas. El borrado se bloquea si la
// bodega tiene stock o movimientos asociados; renombrar siempre está permitido.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una bodega.
func (uc *LocationUseCase) Create(companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		Address:     in.Address,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una bodega por ID.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// Update actualiza nombre/dirección/descripción de una bodega.
func (uc *LocationUseCase) Update(id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		location.Name = *in.Name
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	if in.Description != nil {
		location.Description = *in.Description
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista bodegas por empresa con paginación.
func (uc *LocationUseCase) List(companyID string, limit, offset int) ([]dto.LocationResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

// Delete elimina una bodega solo si no tiene stock ni movimientos asociados.
func (uc *LocationUseCase) Delete(id string) error {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrLocationNotFound
	}
	inUse, err := uc.repo.HasReferences(id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrLocationInUse
	}
	return uc.repo.Delete(id)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Address:     l.Address,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
