package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gcmn-library-backend/internal/shared/middleware"
	"gcmn-library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigin),
		middleware.Authenticate(c.Config.Session.CookieName, c.Sessions, c.IdentityService),
	)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(api, c)
		setupProfileRoutes(api, c)
		setupBookRoutes(api, c)
		setupBorrowRoutes(api, c)
		setupLibraryCardRoutes(api, c)
		setupNoteRoutes(api, c)
		setupRareBookRoutes(api, c)
		setupEventRoutes(api, c)
		setupMessageRoutes(api, c)
		setupDonationRoutes(api, c)
		setupAdminRoutes(api, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.IdentityHandler.Register)
		auth.POST("/login", c.IdentityHandler.Login)
		auth.POST("/logout", c.IdentityHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), c.IdentityHandler.Me)
	}
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(api *gin.RouterGroup, c *container.Container) {
	profile := api.Group("/profile")
	profile.Use(middleware.RequireAuth())
	{
		profile.GET("", c.IdentityHandler.GetProfile)
		profile.PUT("", c.IdentityHandler.UpdateProfile)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBook)

		books.POST("", middleware.RequireAdmin(), c.BookHandler.CreateBook)
		books.PUT("/:id", middleware.RequireAdmin(), c.BookHandler.UpdateBook)
		books.DELETE("/:id", middleware.RequireAdmin(), c.BookHandler.DeleteBook)
		books.POST("/import", middleware.RequireAdmin(), c.BookHandler.ImportBooks)
	}
}

// ========================================
// BORROW ROUTES
// ========================================
func setupBorrowRoutes(api *gin.RouterGroup, c *container.Container) {
	borrows := api.Group("/borrows")
	{
		borrows.POST("", middleware.RequireAuth(), c.BorrowHandler.Borrow)
		borrows.GET("/my", middleware.RequireAuth(), c.BorrowHandler.ListMyBorrows)

		borrows.GET("", middleware.RequireAdmin(), c.BorrowHandler.ListBorrows)
		borrows.POST("/:id/return", middleware.RequireAdmin(), c.BorrowHandler.MarkReturned)
		borrows.PUT("/:id/status", middleware.RequireAdmin(), c.BorrowHandler.UpdateStatus)
		borrows.DELETE("/:id", middleware.RequireAdmin(), c.BorrowHandler.DeleteBorrow)
	}
}

// ========================================
// LIBRARY CARD ROUTES
// ========================================
func setupLibraryCardRoutes(api *gin.RouterGroup, c *container.Container) {
	cards := api.Group("/library-cards")
	{
		cards.POST("", c.CardHandler.SubmitApplication)
		cards.GET("/my", middleware.RequireAuth(), c.CardHandler.ListMyApplications)

		cards.GET("", middleware.RequireAdmin(), c.CardHandler.ListApplications)
		cards.GET("/:id", middleware.RequireAdmin(), c.CardHandler.GetApplication)
		cards.PATCH("/:id/status", middleware.RequireAdmin(), c.CardHandler.SetStatus)
		cards.DELETE("/:id", middleware.RequireAdmin(), c.CardHandler.DeleteApplication)
	}
}

// ========================================
// NOTE ROUTES
// ========================================
func setupNoteRoutes(api *gin.RouterGroup, c *container.Container) {
	notes := api.Group("/notes")
	{
		notes.GET("", c.NoteHandler.ListActiveNotes)
		notes.GET("/:id/download", c.NoteHandler.DownloadNote)

		notes.POST("", middleware.RequireAdmin(), c.NoteHandler.CreateNote)
		notes.PUT("/:id", middleware.RequireAdmin(), c.NoteHandler.UpdateNote)
		notes.DELETE("/:id", middleware.RequireAdmin(), c.NoteHandler.DeleteNote)
	}
}

// ========================================
// RARE BOOK ROUTES
// ========================================
func setupRareBookRoutes(api *gin.RouterGroup, c *container.Container) {
	rare := api.Group("/rare-books")
	{
		rare.GET("", c.RareBookHandler.ListActiveRareBooks)
		rare.GET("/stream", c.RareBookHandler.Stream)
		rare.POST("/:id/stream-token", c.RareBookHandler.GrantStream)

		rare.POST("", middleware.RequireAdmin(), c.RareBookHandler.CreateRareBook)
		rare.PUT("/:id", middleware.RequireAdmin(), c.RareBookHandler.UpdateRareBook)
		rare.DELETE("/:id", middleware.RequireAdmin(), c.RareBookHandler.DeleteRareBook)
	}
}

// ========================================
// EVENT ROUTES
// ========================================
func setupEventRoutes(api *gin.RouterGroup, c *container.Container) {
	events := api.Group("/events")
	{
		events.GET("", c.EventHandler.ListEvents)
		events.GET("/:id", c.EventHandler.GetEvent)

		events.POST("", middleware.RequireAdmin(), c.EventHandler.CreateEvent)
		events.PUT("/:id", middleware.RequireAdmin(), c.EventHandler.UpdateEvent)
		events.DELETE("/:id", middleware.RequireAdmin(), c.EventHandler.DeleteEvent)
	}
}

// ========================================
// MESSAGE ROUTES
// ========================================
func setupMessageRoutes(api *gin.RouterGroup, c *container.Container) {
	messages := api.Group("/messages")
	{
		messages.POST("", c.MessageHandler.CreateMessage)

		messages.GET("", middleware.RequireAdmin(), c.MessageHandler.ListMessages)
		messages.PATCH("/:id/seen", middleware.RequireAdmin(), c.MessageHandler.MarkSeen)
		messages.DELETE("/:id", middleware.RequireAdmin(), c.MessageHandler.DeleteMessage)
	}
}

// ========================================
// DONATION ROUTES
// ========================================
func setupDonationRoutes(api *gin.RouterGroup, c *container.Container) {
	donations := api.Group("/donations")
	{
		donations.POST("", c.DonationHandler.CreateDonation)

		donations.GET("", middleware.RequireAdmin(), c.DonationHandler.ListDonations)
		donations.DELETE("/:id", middleware.RequireAdmin(), c.DonationHandler.DeleteDonation)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(api *gin.RouterGroup, c *container.Container) {
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", c.IdentityHandler.ListUsers)
		admin.DELETE("/users/:id", c.IdentityHandler.DeleteUser)

		admin.GET("/notes", c.NoteHandler.ListNotes)
		admin.GET("/rare-books", c.RareBookHandler.ListRareBooks)

		admin.GET("/stats", c.ReportHandler.GetStats)
		admin.GET("/reports/borrows.xlsx", c.ReportHandler.ExportBorrows)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "ok"
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" || cacheStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   "up",
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
