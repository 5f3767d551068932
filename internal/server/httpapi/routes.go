package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with the shared middleware chain and every
// route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "brandvigilante",
		DisableStartupMessage: true,
		ErrorHandler:          h.ErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             1 << 20,
	})
	app.Use(h.RequestLog)
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(h.CheckOrigin)
	app.Use(h.CSRF())
	app.Use(h.ExposeCSRFToken)
	app.Use(h.Authenticate)

	RegisterRoutes(app, h)
	return app
}

// RegisterRoutes mounts the page, admin and API routes on app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	registerPageRoutes(app, h)
	registerAdminRoutes(app, h)
	registerAPIRoutes(app, h)
}

func registerPageRoutes(app *fiber.App, h *Handler) {
	app.Get("/healthz", h.Health)

	app.Get("/sign-in", h.ShowSignIn)
	app.Post("/sign-in", h.SignIn)
	app.Get("/sign-up", h.ShowSignUp)
	app.Post("/sign-up", h.SignUp)
	app.Post("/sign-out", h.SignOut)
	app.Post("/logout", h.SignOut)

	app.Get("/login/google", h.GoogleLogin)
	app.Get("/login/google/callback", h.GoogleCallback)

	app.Get("/forgot-password", h.ShowForgotPassword)
	app.Post("/forgot-password", h.ForgotPassword)
	app.Get("/reset-password", h.ShowResetPassword)
	app.Post("/reset-password", h.ResetPassword)
	app.Get("/verify-email", h.VerifyEmail)
	app.Post("/verify-email", h.RequireUser, h.ResendVerification)
	app.Post("/verify-email/resend", h.RequireUser, h.ResendVerification)

	app.Get("/dashboard", h.RequireUser, h.Dashboard)
	app.Get("/profile", h.RequireUser, h.ShowProfile)
	app.Post("/settings/profile", h.RequireUser, h.UpdateProfile)
	app.Post("/settings/password", h.RequireUser, h.ChangePassword)
	app.Get("/listings", h.RequireUser, h.ShowListings)
}

func registerAdminRoutes(app *fiber.App, h *Handler) {
	admin := app.Group("/admin", h.RequireAdmin)
	admin.Get("", h.AdminDashboard)
	admin.Get("/brands", h.AdminBrands)
	admin.Get("/brands/:id", h.AdminBrand)
	admin.Get("/terms", h.AdminTerms)
	admin.Get("/marketplaces", h.AdminMarketplaces)
	admin.Get("/users", h.AdminUsers)
	admin.Post("/users", h.AdminCreateUser)
}

func registerAPIRoutes(app *fiber.App, h *Handler) {
	corsCfg := cors.Config{AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS"}
	if h.appOrigin != "" {
		corsCfg.AllowOrigins = h.appOrigin
		corsCfg.AllowCredentials = true
	}
	api := app.Group("/api", cors.New(corsCfg))

	api.Post("/leads", h.SubmitLead)

	brands := api.Group("/brands", h.RequireUser)
	brands.Get("", h.ListBrands)
	brands.Get("/:id", h.GetBrand)
	brands.Post("", h.RequireAdmin, h.CreateBrand)
	brands.Put("/:id", h.RequireAdmin, h.UpdateBrand)
	brands.Delete("/:id", h.RequireAdmin, h.DeleteBrand)
	brands.Get("/:id/users", h.RequireAdmin, h.BrandUsers)
	brands.Post("/:id/users", h.RequireAdmin, h.AddBrandUsers)
	brands.Delete("/:id/users", h.RequireAdmin, h.RemoveBrandUsers)
	brands.Get("/:id/marketplaces", h.BrandMarketplaces)
	brands.Post("/:id/marketplaces", h.RequireAdmin, h.AddBrandMarketplaces)
	brands.Delete("/:id/marketplaces", h.RequireAdmin, h.RemoveBrandMarketplaces)
	brands.Put("/:id/marketplaces/:mid/status", h.RequireAdmin, h.SetBrandMarketplaceStatus)

	terms := api.Group("/terms", h.RequireUser)
	terms.Get("", h.ListTerms)
	terms.Get("/:id", h.GetTerm)
	terms.Get("/:id/listings", h.TermListings)
	terms.Post("", h.RequireAdmin, h.CreateTerm)
	terms.Put("/:id", h.RequireAdmin, h.UpdateTerm)
	terms.Delete("/:id", h.RequireAdmin, h.DeleteTerm)

	marketplaces := api.Group("/marketplaces", h.RequireUser)
	marketplaces.Get("", h.ListMarketplaces)
	marketplaces.Get("/:id", h.GetMarketplace)
	marketplaces.Post("", h.RequireAdmin, h.CreateMarketplace)
	marketplaces.Put("/:id", h.RequireAdmin, h.UpdateMarketplace)
	marketplaces.Delete("/:id", h.RequireAdmin, h.DeleteMarketplace)

	listings := api.Group("/listings", h.RequireUser)
	listings.Get("", h.ListListings)
	listings.Post("/export", h.ExportListings)
	listings.Get("/:id", h.GetListing)
	listings.Get("/:id/offers", h.ListingOffers)
	listings.Post("", h.RequireAdmin, h.CreateListing)
	listings.Patch("/:id", h.RequireAdmin, h.UpdateListing)
	listings.Put("/:id", h.RequireAdmin, h.UpdateListing)
	listings.Delete("/:id", h.RequireAdmin, h.DeleteListing)

	sellers := api.Group("/sellers", h.RequireUser)
	sellers.Get("", h.ListSellers)
	sellers.Get("/:id", h.GetSeller)
	sellers.Get("/:id/offers", h.SellerOffers)
	sellers.Get("/:id/listings", h.SellerListings)
	sellers.Post("", h.RequireAdmin, h.CreateSeller)
	sellers.Put("/:id", h.RequireAdmin, h.UpdateSeller)

	offers := api.Group("/offers", h.RequireAdmin)
	offers.Post("", h.CreateOffer)
	offers.Put("/:id", h.UpdateOffer)

	products := api.Group("/products", h.RequireUser)
	products.Get("", h.ListProducts)
	products.Get("/:id", h.GetProduct)
	products.Get("/:id/listings", h.ProductListings)
	products.Post("", h.RequireAdmin, h.CreateProduct)
	products.Put("/:id", h.RequireAdmin, h.UpdateProduct)

	keywords := api.Group("/keywords", h.RequireUser)
	keywords.Get("", h.ListKeywords)
	keywords.Get("/:id", h.GetKeyword)
	keywords.Post("", h.RequireAdmin, h.CreateKeyword)
	keywords.Put("/:id", h.RequireAdmin, h.UpdateKeyword)
	keywords.Delete("/:id", h.RequireAdmin, h.DeleteKeyword)

	api.Delete("/users/:id", h.RequireAdmin, h.DeleteUser)
	api.Get("/activity", h.RequireAdmin, h.ListActivity)
}
