package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liquor-ledger/internal/application/billing"
	"github.com/jhoicas/liquor-ledger/internal/application/compliance"
	"github.com/jhoicas/liquor-ledger/internal/application/inventory"
	"github.com/jhoicas/liquor-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Tax           *billing.TaxUseCase
	Compliance    *compliance.UseCase
	JWTSecret     string
	JWTIssuer     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	anyRole := RequireRole(jwt.RoleOwner, jwt.RoleManager, jwt.RoleCashier, jwt.RoleExcise)
	staff := RequireRole(jwt.RoleOwner, jwt.RoleManager)
	sellers := RequireRole(jwt.RoleOwner, jwt.RoleManager, jwt.RoleCashier)
	inspectors := RequireRole(jwt.RoleOwner, jwt.RoleManager, jwt.RoleExcise)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Ledger)
	products.Post("/", staff, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)

	// Ledger
	ledgerGroup := protected.Group("/ledger")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	ledgerGroup.Get("/", anyRole, inventoryHandler.List)
	ledgerGroup.Get("/:productID", anyRole, inventoryHandler.GetSnapshot)
	ledgerGroup.Get("/:productID/history", anyRole, inventoryHandler.History)
	ledgerGroup.Post("/:productID/opening", staff, inventoryHandler.LoadOpeningStock)
	ledgerGroup.Post("/:productID/close", staff, inventoryHandler.ClosePeriod)
	ledgerGroup.Post("/:productID/purchases", staff, inventoryHandler.RecordPurchase)
	ledgerGroup.Post("/:productID/sales", sellers, inventoryHandler.RecordSale)
	ledgerGroup.Post("/:productID/wastage", staff, inventoryHandler.RecordWastage)

	// Tax
	taxGroup := protected.Group("/tax")
	taxHandler := NewTaxHandler(deps.Tax)
	taxGroup.Get("/rates", anyRole, taxHandler.GetRates)
	taxGroup.Post("/bill", sellers, taxHandler.CalculateBill)

	// Forecast
	forecastGroup := protected.Group("/forecast")
	forecastHandler := NewForecastHandler(deps.Replenishment)
	forecastGroup.Get("/", staff, forecastHandler.List)
	forecastGroup.Get("/:productID", staff, forecastHandler.Get)

	// Compliance
	complianceGroup := protected.Group("/compliance")
	complianceHandler := NewComplianceHandler(deps.Compliance)
	complianceGroup.Get("/audit", inspectors, complianceHandler.Audit)
	complianceGroup.Get("/flags", inspectors, complianceHandler.ListFlags)
	complianceGroup.Post("/flags/:id/resolve", RequireRole(jwt.RoleOwner), complianceHandler.ResolveFlag)
}
