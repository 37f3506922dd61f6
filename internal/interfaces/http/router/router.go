package router

import (
	"github.com/expohall/backend/internal/infrastructure/auth"
	"github.com/expohall/backend/internal/interfaces/http/handler"
	"github.com/expohall/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxRequestBodyBytes caps admin API request bodies
const maxRequestBodyBytes = 1 << 20

// Config contains everything the router needs to wire routes
type Config struct {
	JWTService *auth.JWTService
	Allowlist  auth.AdminAllowlist
	Invoices   *handler.InvoiceHandler
	Webhooks   *handler.WebhookHandler
	Vendors    *handler.VendorHandler
	Booths     *handler.BoothHandler
	System     *handler.SystemHandler
	Logger     *zap.Logger
}

// Setup registers all routes on the engine. The webhook route sits outside
// the versioned API group and carries no auth middleware; its authentication
// is the payload signature.
func Setup(engine *gin.Engine, cfg Config) {
	engine.Use(middleware.RequestID())

	engine.GET("/health", cfg.System.Health)
	engine.POST("/webhooks/payment", cfg.Webhooks.HandlePaymentWebhook)

	api := engine.Group("/api/v1")
	api.Use(middleware.BodyLimit(maxRequestBodyBytes))

	// Consumer-facing payment status read
	api.GET("/vendors/:id/payment", cfg.Vendors.GetVendorPayment)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.JWTService, cfg.Allowlist, cfg.Logger))
	{
		admin.POST("/invoices", cfg.Invoices.IssueInvoice)
		admin.POST("/invoices/:id/cancel", cfg.Invoices.CancelInvoice)

		admin.POST("/vendors", cfg.Vendors.CreateVendor)
		admin.POST("/vendors/:id/booths", cfg.Vendors.AssignBooths)

		admin.POST("/booths", cfg.Booths.CreateBooth)
		admin.GET("/booths", cfg.Booths.ListBooths)
	}
}
