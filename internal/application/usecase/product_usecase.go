package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía
// movimientos y conteos, nunca editando el producto directamente.
type ProductUseCase struct {
	repo      repository.ProductRepository
	stockRepo repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, stockRepo repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, stockRepo: stockRepo}
}

// Create crea un nuevo producto activo con stock cero en todas las bodegas.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.MinStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		Cost:        in.Cost,
		MinStock:    in.MinStock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product)
}

// GetByID obtiene un producto con su stock por bodega y total derivado.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return uc.toResponse(product)
}

// Update actualiza un producto. No permite modificar stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Cost = *in.Cost
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product)
}

// Deactivate aplica borrado lógico. Los movimientos que referencian el producto
// se conservan intactos.
func (uc *ProductUseCase) Deactivate(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	return uc.repo.Deactivate(id)
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(companyID string, onlyActive bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		resp, err := uc.toResponse(p)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func (uc *ProductUseCase) toResponse(p *entity.Product) (*dto.ProductResponse, error) {
	levels, err := uc.stockRepo.ListByProduct(p.ID)
	if err != nil {
		return nil, err
	}
	locations := make([]dto.StockByLocationDTO, 0, len(levels))
	total := decimal.Zero
	for _, lvl := range levels {
		locations = append(locations, dto.StockByLocationDTO{
			LocationID: lvl.LocationID,
			Quantity:   lvl.Quantity,
		})
		total = total.Add(lvl.Quantity)
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		Cost:        p.Cost,
		MinStock:    p.MinStock,
		IsActive:    p.IsActive,
		Locations:   locations,
		TotalStock:  total,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}
