// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/config"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/interfaces/http/handlers"
	"github.com/your-org/burger-pizza/internal/interfaces/http/middleware"
	"github.com/your-org/burger-pizza/internal/pkg/auth"
	"github.com/your-org/burger-pizza/internal/pkg/pdf"
)

// Dependencies holds what the route handlers are built from
type Dependencies struct {
	Config    *config.Config
	Logger    logrus.FieldLogger
	Catalog   catalog.Provider
	Registry  *order.Registry
	Tokens    *auth.SessionManager
	IPLocator handlers.IPLocator
	// Orders is nil unless orders are stored in Postgres
	Orders   handlers.OrderFinder
	Receipts *pdf.Service
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupCatalogRoutes(rg, deps)

	sessionScoped := rg.Group("")
	sessionScoped.Use(middleware.Session(deps.Config, deps.Tokens, deps.Logger))
	SetupSessionRoutes(sessionScoped, deps)
	SetupCartRoutes(sessionScoped, deps)
	SetupCheckoutRoutes(sessionScoped, deps)

	if deps.Orders != nil {
		SetupOrderRoutes(sessionScoped, deps)
	}
}

// SetupCatalogRoutes sets up menu routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Config.Catalog.Currency)

	rg.GET("/catalog", catalogHandler.GetCatalog)
}

// SetupSessionRoutes sets up session state routes
func SetupSessionRoutes(rg *gin.RouterGroup, deps Dependencies) {
	sessionHandler := handlers.NewSessionHandler(deps.Registry, deps.Logger)

	session := rg.Group("/session")
	{
		session.GET("", sessionHandler.GetSession)
		session.GET("/events", sessionHandler.Events)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Registry, deps.Catalog, deps.Logger)

	cart := rg.Group("/cart")
	{
		cart.POST("/items", cartHandler.AddItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Registry, deps.IPLocator, deps.Logger)

	checkout := rg.Group("/checkout")
	{
		checkout.POST("", checkoutHandler.BeginCheckout)
		checkout.DELETE("", checkoutHandler.CancelCheckout)
		checkout.PATCH("/contact", checkoutHandler.UpdateContact)
		checkout.POST("/location", checkoutHandler.CaptureLocation)
		checkout.POST("/submit", checkoutHandler.SubmitOrder)
	}
}

// SetupOrderRoutes sets up stored order routes. Callers only see orders
// placed from their own session.
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Receipts, deps.Logger)

	orders := rg.Group("/orders")
	{
		orders.GET("/:number", orderHandler.GetOrder)
		orders.GET("/:number/receipt", orderHandler.GetReceipt)
	}
}
