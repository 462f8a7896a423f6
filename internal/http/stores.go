package http

import (
	"time"

	"github.com/avolkau/biblio/internal/database/catalog"
	"github.com/avolkau/biblio/internal/entities"
)

// This file consolidates the store interface definitions used by the
// HTTP controllers. Each controller depends only on the methods it
// actually calls; the repositories under internal/database satisfy
// these interfaces.

// CatalogReader provides the read-only queries behind the public pages.
type CatalogReader interface {
	GetTotals() (catalog.Totals, error)
	GetTopCategories(limit int) ([]catalog.CategorySummary, error)
	GetRecentBooks(limit int) ([]entities.Book, error)

	GetAllAuthors() ([]entities.Author, error)
	SearchAuthors(query string) ([]entities.Author, error)
	GetAuthorByID(id uint) (*entities.Author, error)

	GetAllBooks() ([]entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)

	GetAllCategories() ([]catalog.CategorySummary, error)
	GetCategoryBySlug(slug string) (*entities.Category, error)
}

// CatalogAdmin provides the write operations behind the admin screens.
type CatalogAdmin interface {
	CreateAuthor(author *entities.Author) error
	GetAuthorByID(id uint) (*entities.Author, error)
	UpdateAuthor(author *entities.Author) error
	DeleteAuthor(id uint) error
	SetAuthorProfile(profile *entities.AuthorProfile) error

	CreateCategory(category *entities.Category) error
	GetCategoryByID(id uint) (*entities.Category, error)
	UpdateCategory(category *entities.Category) error
	DeleteCategory(id uint) error

	CreatePublisher(publisher *entities.Publisher) error
	GetPublisherByID(id uint) (*entities.Publisher, error)
	UpdatePublisher(publisher *entities.Publisher) error
	DeletePublisher(id uint) error
	GetAllPublishers() ([]entities.Publisher, error)

	CreateBook(book *entities.Book) error
	GetBookByID(id uint) (*entities.Book, error)
	UpdateBook(book *entities.Book) error
	DeleteBook(id uint) error
	AddBookToCategory(bookID, categoryID uint) error
	RemoveBookFromCategory(bookID, categoryID uint) error

	CreatePublication(pub *entities.Publication) error
	DeletePublication(id uint) error
}

// CirculationStore covers branch inventory and lending operations.
type CirculationStore interface {
	CreateBranch(branch *entities.LibraryBranch) error
	GetBranchByID(id uint) (*entities.LibraryBranch, error)
	GetAllBranches() ([]entities.LibraryBranch, error)
	DeleteBranch(id uint) error

	CreateCopy(copy *entities.BookCopy) error
	GetCopyByID(id uint) (*entities.BookCopy, error)
	GetCopiesForBook(bookID uint) ([]entities.BookCopy, error)
	GetAvailableCopies(bookID, branchID uint) ([]entities.BookCopy, error)
	SetCopyAvailability(copyID uint, available bool) error
	UpdateCopy(copy *entities.BookCopy) error
	DeleteCopy(id uint) error

	CheckoutCopy(copyID, borrowerID uint, checkout, due time.Time) (*entities.BookLoan, error)
	GetLoansForUser(userID uint) ([]entities.BookLoan, error)
	GetActiveLoans() ([]entities.BookLoan, error)
	ReturnLoan(loanID uint, returnDate time.Time) error
	MarkLoanOverdue(loanID uint) error
	MarkLoanLost(loanID uint) error

	CreateReservation(bookID, userID, branchID uint) (*entities.Reservation, error)
	GetReservationsForUser(userID uint) ([]entities.Reservation, error)
	GetPendingReservationsForBranch(branchID uint) ([]entities.Reservation, error)
	UpdateReservationStatus(id uint, status entities.ReservationStatus) error
}

// AccountsStore covers users, reading lists and reviews.
type AccountsStore interface {
	CreateUser(username, email, password string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	UpdateProfile(userID uint, bio, profileImage string) error
	DeleteUser(id uint) error
	AddFavoriteCategory(userID, categoryID uint) error
	RemoveFavoriteCategory(userID, categoryID uint) error

	CreateReadingList(list *entities.ReadingList) error
	GetReadingListByID(id uint) (*entities.ReadingList, error)
	GetReadingListsForUser(userID uint) ([]entities.ReadingList, error)
	GetPublicReadingLists() ([]entities.ReadingList, error)
	AddBookToReadingList(listID, bookID uint) error
	RemoveBookFromReadingList(listID, bookID uint) error
	DeleteReadingList(id uint) error

	CreateReview(userID, bookID uint, rating int, comment string) (*entities.BookReview, error)
	GetReviewsForBook(bookID uint) ([]entities.BookReview, error)
	GetReviewsForUser(userID uint) ([]entities.BookReview, error)
	DeleteReview(id uint) error
}

// AnalyticsStore covers usage logging and the derived snapshots.
type AnalyticsStore interface {
	RecordBookView(bookID uint, userID *uint) (*entities.BookView, error)
	GetRecentViews(limit int) ([]entities.BookView, error)
	GetViewCountForBook(bookID uint) (int64, error)
	LogRecommendation(userID, bookID uint, reason string) (*entities.RecommendationLog, error)
	MarkRecommendationClicked(id uint) error
	GetRecommendationsForUser(userID uint) ([]entities.RecommendationLog, error)
	GetCategoryAnalytics(categoryID uint) (*entities.CategoryAnalytics, error)
	GetAuthorAnalytics(authorID uint) (*entities.AuthorAnalytics, error)
}

// SnapshotRefresher triggers an immediate analytics recompute.
type SnapshotRefresher interface {
	RunNow()
}
