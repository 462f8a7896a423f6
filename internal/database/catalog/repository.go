// Package catalog provides database operations for the book catalog:
// authors, categories, publishers, books and publication editions.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	book, err := repo.GetBookByID(42)
//	cats, err := repo.GetTopCategories(5)
package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/entities"
)

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Totals holds per-entity row counts for the home page.
type Totals struct {
	Books      int64 `json:"total_books"`
	Authors    int64 `json:"total_authors"`
	Categories int64 `json:"total_categories"`
	Publishers int64 `json:"total_publishers"`
}

// CategorySummary is a category row annotated with its book count.
type CategorySummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	BookCount int64  `json:"book_count"`
}

// --- Authors ---

// CreateAuthor inserts a new author. Name is required.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	if author.Name == "" {
		return fmt.Errorf("%w: author name is required", database.ErrValidation)
	}
	return r.db.Create(author).Error
}

// GetAuthorByID retrieves an author with profile and books.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Preload("Profile").Preload("Books").First(&author, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: author %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// GetAllAuthors returns all authors ordered by name.
func (r *Repository) GetAllAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name ASC").Find(&authors).Error
	return authors, err
}

// SearchAuthors returns authors whose name matches the query.
func (r *Repository) SearchAuthors(query string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := "%" + query + "%"
	err := r.db.Where("LOWER(name) LIKE LOWER(?)", pattern).Order("name ASC").Find(&authors).Error
	return authors, err
}

// UpdateAuthor saves changes to an existing author.
func (r *Repository) UpdateAuthor(author *entities.Author) error {
	if author.Name == "" {
		return fmt.Errorf("%w: author name is required", database.ErrValidation)
	}
	if err := r.ensureExists(&entities.Author{}, author.ID, "author"); err != nil {
		return err
	}
	return r.db.Omit("Profile", "Books").Save(author).Error
}

// DeleteAuthor removes an author together with its profile, books and
// everything hanging off those books.
func (r *Repository) DeleteAuthor(id uint) error {
	if err := r.ensureExists(&entities.Author{}, id, "author"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bookIDs []uint
		if err := tx.Model(&entities.Book{}).Where("author_id = ?", id).Pluck("id", &bookIDs).Error; err != nil {
			return err
		}
		for _, bookID := range bookIDs {
			if err := deleteBookTx(tx, bookID); err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&entities.AuthorProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&entities.AuthorAnalytics{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Author{}, id).Error
	})
}

// SetAuthorProfile creates or replaces the profile owned by an author.
func (r *Repository) SetAuthorProfile(profile *entities.AuthorProfile) error {
	if err := r.ensureExists(&entities.Author{}, profile.AuthorID, "author"); err != nil {
		return err
	}
	return r.db.Save(profile).Error
}

// GetAuthorProfile retrieves the profile for an author.
func (r *Repository) GetAuthorProfile(authorID uint) (*entities.AuthorProfile, error) {
	var profile entities.AuthorProfile
	err := r.db.First(&profile, "author_id = ?", authorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: profile for author %d", database.ErrNotFound, authorID)
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// --- Categories ---

// CreateCategory inserts a new category. When no slug is supplied it is
// derived from the name; the derived or supplied slug must be unique.
// The slug is fixed at creation time and never regenerated on rename.
func (r *Repository) CreateCategory(category *entities.Category) error {
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", database.ErrValidation)
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	var count int64
	if err := r.db.Model(&entities.Category{}).Where("slug = ?", category.Slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category slug %q already exists", database.ErrConstraintViolation, category.Slug)
	}
	return translateDuplicate(r.db.Create(category).Error, "category slug")
}

// GetCategoryByID retrieves a category by numeric ID.
func (r *Repository) GetCategoryByID(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: category %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryBySlug retrieves a category with its books by URL slug.
func (r *Repository) GetCategoryBySlug(slug string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Preload("Books.Author").Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: category %q", database.ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetAllCategories returns all categories with book counts, ordered by name.
func (r *Repository) GetAllCategories() ([]CategorySummary, error) {
	return r.categorySummaries("categories.name ASC", 0)
}

// GetTopCategories returns up to limit categories ordered by book count.
func (r *Repository) GetTopCategories(limit int) ([]CategorySummary, error) {
	return r.categorySummaries("book_count DESC", limit)
}

func (r *Repository) categorySummaries(order string, limit int) ([]CategorySummary, error) {
	var summaries []CategorySummary
	query := r.db.Model(&entities.Category{}).
		Select("categories.id, categories.name, categories.slug, COUNT(book_categories.book_id) AS book_count").
		Joins("LEFT JOIN book_categories ON book_categories.category_id = categories.id").
		Group("categories.id").
		Order(order)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&summaries).Error
	return summaries, err
}

// UpdateCategory saves changes to a category. Renames do not regenerate
// the slug; an explicitly changed slug must stay unique.
func (r *Repository) UpdateCategory(category *entities.Category) error {
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", database.ErrValidation)
	}
	if err := r.ensureExists(&entities.Category{}, category.ID, "category"); err != nil {
		return err
	}
	var count int64
	if err := r.db.Model(&entities.Category{}).
		Where("slug = ? AND id <> ?", category.Slug, category.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category slug %q already exists", database.ErrConstraintViolation, category.Slug)
	}
	return translateDuplicate(r.db.Omit("Books").Save(category).Error, "category slug")
}

// DeleteCategory removes a category, its book and favorite associations
// and its analytics snapshot.
func (r *Repository) DeleteCategory(id uint) error {
	if err := r.ensureExists(&entities.Category{}, id, "category"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_favorite_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&entities.CategoryAnalytics{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Category{}, id).Error
	})
}

// --- Publishers ---

// CreatePublisher inserts a new publisher.
func (r *Repository) CreatePublisher(publisher *entities.Publisher) error {
	if publisher.Name == "" {
		return fmt.Errorf("%w: publisher name is required", database.ErrValidation)
	}
	return r.db.Create(publisher).Error
}

// GetPublisherByID retrieves a publisher with its publications.
func (r *Repository) GetPublisherByID(id uint) (*entities.Publisher, error) {
	var publisher entities.Publisher
	err := r.db.Preload("Publications").First(&publisher, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: publisher %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// GetAllPublishers returns all publishers ordered by name.
func (r *Repository) GetAllPublishers() ([]entities.Publisher, error) {
	var publishers []entities.Publisher
	err := r.db.Order("name ASC").Find(&publishers).Error
	return publishers, err
}

// UpdatePublisher saves changes to an existing publisher.
func (r *Repository) UpdatePublisher(publisher *entities.Publisher) error {
	if err := r.ensureExists(&entities.Publisher{}, publisher.ID, "publisher"); err != nil {
		return err
	}
	return r.db.Omit("Publications").Save(publisher).Error
}

// DeletePublisher removes a publisher and its publications.
func (r *Repository) DeletePublisher(id uint) error {
	if err := r.ensureExists(&entities.Publisher{}, id, "publisher"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publisher_id = ?", id).Delete(&entities.Publication{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Publisher{}, id).Error
	})
}

// --- Books ---

// CreateBook inserts a new book. The referenced author must exist and
// the ISBN must be unique across all books.
func (r *Repository) CreateBook(book *entities.Book) error {
	if book.Title == "" {
		return fmt.Errorf("%w: book title is required", database.ErrValidation)
	}
	if err := r.ensureExists(&entities.Author{}, book.AuthorID, "author"); err != nil {
		return err
	}
	var count int64
	if err := r.db.Model(&entities.Book{}).Where("isbn = ?", book.ISBN).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: isbn %q already exists", database.ErrConstraintViolation, book.ISBN)
	}
	return translateDuplicate(r.db.Omit("Categories", "Publications", "Author").Create(book).Error, "isbn")
}

// GetBookByID retrieves a book with author, categories and publication editions.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Categories").
		Preload("Publications.Publisher").First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: book %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks returns all books with their authors, ordered by title.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Author").Order("title ASC").Find(&books).Error
	return books, err
}

// GetRecentBooks returns up to limit books ordered by publication date,
// newest first.
func (r *Repository) GetRecentBooks(limit int) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.Preload("Author").Order("publication_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&books).Error
	return books, err
}

// SearchBooks matches books by title, author name or ISBN.
func (r *Repository) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.Preload("Author").
		Joins("JOIN authors ON authors.id = books.author_id").
		Where("LOWER(books.title) LIKE LOWER(?) OR LOWER(authors.name) LIKE LOWER(?) OR books.isbn LIKE ?",
			pattern, pattern, pattern).
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

// UpdateBook saves changes to an existing book, keeping the ISBN unique.
func (r *Repository) UpdateBook(book *entities.Book) error {
	if book.Title == "" {
		return fmt.Errorf("%w: book title is required", database.ErrValidation)
	}
	if err := r.ensureExists(&entities.Book{}, book.ID, "book"); err != nil {
		return err
	}
	if err := r.ensureExists(&entities.Author{}, book.AuthorID, "author"); err != nil {
		return err
	}
	var count int64
	if err := r.db.Model(&entities.Book{}).
		Where("isbn = ? AND id <> ?", book.ISBN, book.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: isbn %q already exists", database.ErrConstraintViolation, book.ISBN)
	}
	return translateDuplicate(r.db.Omit("Categories", "Publications", "Author").Save(book).Error, "isbn")
}

// DeleteBook removes a book and everything that references it.
func (r *Repository) DeleteBook(id uint) error {
	if err := r.ensureExists(&entities.Book{}, id, "book"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deleteBookTx(tx, id)
	})
}

// AddBookToCategory links a book to a category.
func (r *Repository) AddBookToCategory(bookID, categoryID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: book %d", database.ErrNotFound, bookID)
		}
		return err
	}
	var category entities.Category
	if err := r.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", database.ErrNotFound, categoryID)
		}
		return err
	}
	return r.db.Model(&book).Association("Categories").Append(&category)
}

// RemoveBookFromCategory unlinks a book from a category.
func (r *Repository) RemoveBookFromCategory(bookID, categoryID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: book %d", database.ErrNotFound, bookID)
		}
		return err
	}
	return r.db.Model(&book).Association("Categories").Delete(&entities.Category{ID: categoryID})
}

// GetTotals returns per-entity row counts for the home page.
func (r *Repository) GetTotals() (Totals, error) {
	var totals Totals
	if err := r.db.Model(&entities.Book{}).Count(&totals.Books).Error; err != nil {
		return totals, err
	}
	if err := r.db.Model(&entities.Author{}).Count(&totals.Authors).Error; err != nil {
		return totals, err
	}
	if err := r.db.Model(&entities.Category{}).Count(&totals.Categories).Error; err != nil {
		return totals, err
	}
	err := r.db.Model(&entities.Publisher{}).Count(&totals.Publishers).Error
	return totals, err
}

// --- Publications ---

// CreatePublication inserts a publication edition. The referenced book
// and publisher must exist; the (book, publisher, country) triple must
// be unique.
func (r *Repository) CreatePublication(pub *entities.Publication) error {
	if err := r.ensureExists(&entities.Book{}, pub.BookID, "book"); err != nil {
		return err
	}
	if err := r.ensureExists(&entities.Publisher{}, pub.PublisherID, "publisher"); err != nil {
		return err
	}
	var count int64
	if err := r.db.Model(&entities.Publication{}).
		Where("book_id = ? AND publisher_id = ? AND country = ?", pub.BookID, pub.PublisherID, pub.Country).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: publication of book %d by publisher %d in %q already exists",
			database.ErrConstraintViolation, pub.BookID, pub.PublisherID, pub.Country)
	}
	return translateDuplicate(r.db.Omit("Book", "Publisher").Create(pub).Error, "publication edition")
}

// GetPublicationsForBook returns all editions for a book with publishers.
func (r *Repository) GetPublicationsForBook(bookID uint) ([]entities.Publication, error) {
	var pubs []entities.Publication
	err := r.db.Preload("Publisher").Where("book_id = ?", bookID).
		Order("date_published ASC").Find(&pubs).Error
	return pubs, err
}

// DeletePublication removes a single publication edition.
func (r *Repository) DeletePublication(id uint) error {
	if err := r.ensureExists(&entities.Publication{}, id, "publication"); err != nil {
		return err
	}
	return r.db.Delete(&entities.Publication{}, id).Error
}

// --- helpers ---

// deleteBookTx walks every table referencing a book inside the caller's
// transaction: editions, physical copies and their loans, reservations,
// reviews, view history, recommendation logs and join-table rows.
func deleteBookTx(tx *gorm.DB, bookID uint) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.Publication{}).Error; err != nil {
		return err
	}
	if err := tx.Where("copy_id IN (?)",
		tx.Model(&entities.BookCopy{}).Select("id").Where("book_id = ?", bookID),
	).Delete(&entities.BookLoan{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookCopy{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.Reservation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookReview{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookView{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.RecommendationLog{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM book_categories WHERE book_id = ?", bookID).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM reading_list_books WHERE book_id = ?", bookID).Error; err != nil {
		return err
	}
	return tx.Delete(&entities.Book{}, bookID).Error
}

func (r *Repository) ensureExists(model any, id uint, kind string) error {
	if id == 0 {
		return fmt.Errorf("%w: %s 0", database.ErrNotFound, kind)
	}
	var count int64
	if err := r.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %d", database.ErrNotFound, kind, id)
	}
	return nil
}

// translateDuplicate maps the driver's duplicate-key error onto the
// store's constraint error so concurrent writers racing past the
// pre-insert check still fail with the documented kind.
func translateDuplicate(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: duplicate %s", database.ErrConstraintViolation, what)
	}
	return err
}
