package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/almacen-pro/almacen-api/internal/application/analytics"
	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	LocationUC       *usecase.LocationUseCase
	CategoryUC       *usecase.CategoryUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	MovementQuery    *inventory.MovementQueryUseCase
	CountSessionUC   *inventory.CountSessionUseCase
	ReconciliationUC *inventory.ReconciliationUseCase
	SyncUC           *inventory.SyncUseCase
	HistoryUC        *inventory.HistoryUseCase
	ReplenishmentUC  *inventory.ReplenishmentUseCase
	DashboardUC      *analytics.DashboardUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las
// operaciones que mutan stock exigen rol admin o bodeguero, y aplicar un
// conteo o borrar catálogo exige admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(RoleAdmin, RoleBodeguero)
	adminOnly := RequireRole(RoleAdmin)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", staff, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", staff, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Locations
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", staff, locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", staff, locationHandler.Update)
	locations.Delete("/:id", adminOnly, locationHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", staff, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Put("/:id", staff, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Inventory: movimientos y reposición
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.MovementQuery, deps.ReplenishmentUC)
	invGroup.Post("/movements", staff, inventoryHandler.RegisterMovement)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListMovementsByProduct)
	invGroup.Get("/locations/:id/movements", inventoryHandler.ListMovementsByLocation)
	invGroup.Get("/replenishment", inventoryHandler.ReplenishmentList)

	// Counts: conteo físico y reconciliación
	counts := protected.Group("/counts")
	countHandler := NewCountHandler(deps.CountSessionUC, deps.ReconciliationUC, deps.SyncUC)
	counts.Post("/", staff, countHandler.Create)
	counts.Get("/", countHandler.List)
	counts.Post("/offline", staff, countHandler.EnqueueOffline)
	counts.Post("/sync", staff, countHandler.Sync)
	counts.Get("/:id", countHandler.GetByID)
	counts.Post("/:id/lines", staff, countHandler.RecordLine)
	counts.Post("/:id/conclude", staff, countHandler.Conclude)
	counts.Get("/:id/preview", countHandler.Preview)
	counts.Post("/:id/apply", adminOnly, countHandler.Apply)

	// History: reconstrucción de stock histórico
	history := protected.Group("/history")
	historyHandler := NewHistoryHandler(deps.HistoryUC)
	history.Get("/", historyHandler.Reconstruct)
	history.Get("/compare", historyHandler.Compare)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
}
