package handlers

import (
	"log"
	"os"

	"shopdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the engine. Split out of main
// so tests can drive the real router.
func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", Login)
	r.POST("/staff/login", StaffLogin)
	r.GET("/translations", GetTranslations)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", Register)
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("Registration route is disabled.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.CheckSubscription())
	{
		// Plan activation must stay reachable on an expired plan.
		api.GET("/subscription", GetSubscription)
		api.POST("/subscription/activate", ActivateSubscription)
		api.GET("/limits/:kind", CheckLimit)

		billing := api.Group("/")
		billing.Use(middleware.RequirePermission(middleware.PermBilling))
		{
			billing.POST("/invoices", CreateInvoice)
			billing.GET("/invoices", ListInvoices)
			billing.GET("/invoices/:id", GetInvoice)
			billing.GET("/invoices/:id/print", PrintInvoice)
			billing.GET("/items/scan/:sku", GetItemBySKU)
		}

		inventory := api.Group("/")
		inventory.Use(middleware.RequirePermission(middleware.PermInventory))
		{
			inventory.GET("/items", GetItems)
			inventory.POST("/items", AddItem)
			inventory.PUT("/items/:id", UpdateItem)
			inventory.POST("/import/preview", PreviewImport)
			inventory.POST("/import/confirm", ConfirmImport)
		}

		customers := api.Group("/")
		customers.Use(middleware.RequirePermission(middleware.PermCustomers))
		{
			customers.GET("/customers", GetCustomers)
			customers.POST("/customers", AddCustomer)
			customers.GET("/customers/:id", GetCustomer)
			customers.PUT("/customers/:id", UpdateCustomer)
		}

		reports := api.Group("/")
		reports.Use(middleware.RequirePermission(middleware.PermReports))
		{
			reports.GET("/reports", GetSalesReport)
			reports.GET("/reports/valuation", GetStockValuation)
		}

		// Staff management and shop settings
		settings := api.Group("/")
		settings.Use(middleware.RequirePermission(middleware.PermSettings))
		{
			settings.GET("/profile", GetProfile)
			settings.PUT("/profile", UpdateProfile)
			settings.GET("/staff", GetStaff)
			settings.POST("/staff", AddStaff)
			settings.PUT("/staff/:id", UpdateStaff)
			settings.POST("/staff/attendance", MarkAttendance)
			settings.POST("/staff/:id/checkout", CheckOut)
			settings.GET("/staff/attendance", ListAttendance)
		}

		// AI features need the Pro plan or the AI add-on
		aiGroup := api.Group("/ai")
		aiGroup.Use(middleware.RequireAI())
		{
			aiGroup.POST("/ask", AskAI)
			aiGroup.POST("/marketing/caption", MarketingCaption)
			aiGroup.POST("/marketing/image", MarketingImage)
		}
	}
}
