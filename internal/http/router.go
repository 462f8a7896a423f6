package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	catalog := NewCatalogController(cfg.CatalogReader, cfg.AnalyticsStore)
	admin := NewAdminController(cfg.CatalogAdmin)
	circulation := NewCirculationController(cfg.CirculationStore)
	accounts := NewAccountsController(cfg.AccountsStore)
	analytics := NewAnalyticsController(cfg.AnalyticsStore, cfg.SnapshotRefresher)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/stats", catalog.HomeStats)

		api.GET("/authors", catalog.ListAuthors)
		api.GET("/authors/:id", catalog.AuthorDetail)

		api.GET("/books", catalog.ListBooks)
		api.GET("/books/:id", catalog.BookDetail)
		api.GET("/books/:id/copies", circulation.GetCopiesForBook)
		api.GET("/books/:id/reviews", accounts.GetReviewsForBook)
		api.POST("/books/:id/reviews", accounts.CreateReview)
		api.GET("/books/:id/views", analytics.GetBookViewCount)

		api.GET("/categories", catalog.ListCategories)
		api.GET("/categories/:slug", catalog.CategoryDetail)

		api.GET("/branches", circulation.GetAllBranches)
		api.GET("/branches/:id", circulation.GetBranch)

		api.POST("/loans", circulation.Checkout)
		api.POST("/loans/:id/return", circulation.Return)

		api.POST("/reservations", circulation.CreateReservation)
		api.PUT("/reservations/:id/status", circulation.UpdateReservationStatus)

		api.POST("/users", accounts.Register)
		api.GET("/users/:id", accounts.GetUser)
		api.PUT("/users/:id/profile", accounts.UpdateProfile)
		api.DELETE("/users/:id", accounts.DeleteUser)
		api.POST("/users/:id/favorites/:categoryID", accounts.AddFavoriteCategory)
		api.DELETE("/users/:id/favorites/:categoryID", accounts.RemoveFavoriteCategory)
		api.POST("/users/:id/lists", accounts.CreateReadingList)
		api.GET("/users/:id/lists", accounts.GetReadingListsForUser)
		api.GET("/users/:id/loans", circulation.GetLoansForUser)
		api.GET("/users/:id/reservations", circulation.GetReservationsForUser)
		api.GET("/users/:id/reviews", accounts.GetReviewsForUser)
		api.GET("/users/:id/recommendations", analytics.GetRecommendationsForUser)

		api.GET("/lists", accounts.GetPublicReadingLists)
		api.GET("/lists/:id", accounts.GetReadingList)
		api.DELETE("/lists/:id", accounts.DeleteReadingList)
		api.POST("/lists/:id/books/:bookID", accounts.AddBookToReadingList)
		api.DELETE("/lists/:id/books/:bookID", accounts.RemoveBookFromReadingList)

		api.DELETE("/reviews/:id", accounts.DeleteReview)

		api.POST("/recommendations", analytics.LogRecommendation)
		api.POST("/recommendations/:id/clicked", analytics.MarkRecommendationClicked)

		api.GET("/analytics/categories/:id", analytics.GetCategorySnapshot)
		api.GET("/analytics/authors/:id", analytics.GetAuthorSnapshot)
	}

	adm := router.Group("/admin")
	{
		adm.POST("/authors", admin.CreateAuthor)
		adm.PUT("/authors/:id", admin.UpdateAuthor)
		adm.PUT("/authors/:id/profile", admin.SetAuthorProfile)
		adm.DELETE("/authors/:id", admin.DeleteAuthor)

		adm.POST("/categories", admin.CreateCategory)
		adm.PUT("/categories/:id", admin.UpdateCategory)
		adm.DELETE("/categories/:id", admin.DeleteCategory)

		adm.GET("/publishers", admin.GetAllPublishers)
		adm.POST("/publishers", admin.CreatePublisher)
		adm.PUT("/publishers/:id", admin.UpdatePublisher)
		adm.DELETE("/publishers/:id", admin.DeletePublisher)

		adm.POST("/books", admin.CreateBook)
		adm.PUT("/books/:id", admin.UpdateBook)
		adm.DELETE("/books/:id", admin.DeleteBook)
		adm.POST("/books/:id/categories/:categoryID", admin.AddBookToCategory)
		adm.DELETE("/books/:id/categories/:categoryID", admin.RemoveBookFromCategory)

		adm.POST("/publications", admin.CreatePublication)
		adm.DELETE("/publications/:id", admin.DeletePublication)

		adm.POST("/branches", circulation.CreateBranch)
		adm.DELETE("/branches/:id", circulation.DeleteBranch)
		adm.GET("/branches/:id/reservations", circulation.GetPendingReservations)

		adm.POST("/copies", circulation.CreateCopy)
		adm.PATCH("/copies/:id", circulation.UpdateCopyCondition)
		adm.PUT("/copies/:id/availability", circulation.SetCopyAvailability)
		adm.DELETE("/copies/:id", circulation.DeleteCopy)

		adm.GET("/loans/active", circulation.GetActiveLoans)
		adm.POST("/loans/:id/overdue", circulation.MarkOverdue)
		adm.POST("/loans/:id/lost", circulation.MarkLost)

		adm.GET("/analytics/views", analytics.GetRecentViews)
		adm.POST("/analytics/refresh", analytics.RefreshSnapshots)
	}

	return router
}
