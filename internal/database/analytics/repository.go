// Package analytics provides database operations for usage tracking:
// append-only view and recommendation logs, plus derived per-category
// and per-author snapshots rebuilt by a periodic recompute pass.
//
// # Usage
//
//	repo := analytics.NewRepository(db)
//	_, err := repo.RecordBookView(bookID, &userID)
//	err = repo.RecomputeAll()
package analytics

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/entities"
)

// Repository handles all analytics database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new analytics repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Append-only logs ---

// RecordBookView appends a view of a book, optionally attributed to a
// user. The timestamp is set by the store.
func (r *Repository) RecordBookView(bookID uint, userID *uint) (*entities.BookView, error) {
	if err := r.ensureExists(&entities.Book{}, bookID, "book"); err != nil {
		return nil, err
	}
	if userID != nil {
		if err := r.ensureExists(&entities.User{}, *userID, "user"); err != nil {
			return nil, err
		}
	}
	view := &entities.BookView{
		BookID:    bookID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
	if err := r.db.Create(view).Error; err != nil {
		return nil, err
	}
	return view, nil
}

// GetViewCountForBook returns how many times a book page was viewed.
func (r *Repository) GetViewCountForBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookView{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// GetRecentViews returns the most recent views, newest first.
func (r *Repository) GetRecentViews(limit int) ([]entities.BookView, error) {
	var views []entities.BookView
	query := r.db.Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&views).Error
	return views, err
}

// LogRecommendation appends a record of a book recommendation shown to
// a user. The timestamp is set by the store.
func (r *Repository) LogRecommendation(userID, bookID uint, reason string) (*entities.RecommendationLog, error) {
	if err := r.ensureExists(&entities.User{}, userID, "user"); err != nil {
		return nil, err
	}
	if err := r.ensureExists(&entities.Book{}, bookID, "book"); err != nil {
		return nil, err
	}
	entry := &entities.RecommendationLog{
		UserID:    userID,
		BookID:    bookID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	if err := r.db.Omit("User", "Book").Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkRecommendationClicked records that the user followed a
// recommendation.
func (r *Repository) MarkRecommendationClicked(id uint) error {
	if err := r.ensureExists(&entities.RecommendationLog{}, id, "recommendation"); err != nil {
		return err
	}
	return r.db.Model(&entities.RecommendationLog{}).
		Where("id = ?", id).
		Update("clicked", true).Error
}

// GetRecommendationsForUser returns recommendations shown to a user,
// newest first.
func (r *Repository) GetRecommendationsForUser(userID uint) ([]entities.RecommendationLog, error) {
	var entries []entities.RecommendationLog
	err := r.db.Where("user_id = ?", userID).Order("timestamp DESC").Find(&entries).Error
	return entries, err
}

// --- Derived snapshots ---

// RecomputeCategoryAnalytics rebuilds the snapshot row for one category
// from current catalog and view data, refreshing last_updated.
func (r *Repository) RecomputeCategoryAnalytics(categoryID uint) (*entities.CategoryAnalytics, error) {
	if err := r.ensureExists(&entities.Category{}, categoryID, "category"); err != nil {
		return nil, err
	}

	var totalBooks int64
	if err := r.db.Table("book_categories").
		Where("category_id = ?", categoryID).
		Count(&totalBooks).Error; err != nil {
		return nil, err
	}

	var totalViews int64
	if err := r.db.Model(&entities.BookView{}).
		Joins("JOIN book_categories ON book_categories.book_id = book_views.book_id").
		Where("book_categories.category_id = ?", categoryID).
		Count(&totalViews).Error; err != nil {
		return nil, err
	}

	snapshot := entities.CategoryAnalytics{CategoryID: categoryID}
	err := r.db.Where("category_id = ?", categoryID).First(&snapshot).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	snapshot.TotalViews = uint(totalViews)
	snapshot.TotalBooks = uint(totalBooks)
	// Catalog breadth weighs double against raw traffic.
	snapshot.PopularityScore = float64(totalViews) + 2*float64(totalBooks)
	snapshot.LastUpdated = time.Now()

	if err := r.db.Save(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RecomputeAuthorAnalytics rebuilds the snapshot row for one author
// from current view and review data, refreshing last_updated.
func (r *Repository) RecomputeAuthorAnalytics(authorID uint) (*entities.AuthorAnalytics, error) {
	if err := r.ensureExists(&entities.Author{}, authorID, "author"); err != nil {
		return nil, err
	}

	var totalViews int64
	if err := r.db.Model(&entities.BookView{}).
		Joins("JOIN books ON books.id = book_views.book_id").
		Where("books.author_id = ?", authorID).
		Count(&totalViews).Error; err != nil {
		return nil, err
	}

	var reviewStats struct {
		Total int64
		Avg   float64
	}
	if err := r.db.Model(&entities.BookReview{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg").
		Joins("JOIN books ON books.id = book_reviews.book_id").
		Where("books.author_id = ?", authorID).
		Scan(&reviewStats).Error; err != nil {
		return nil, err
	}

	snapshot := entities.AuthorAnalytics{AuthorID: authorID}
	err := r.db.Where("author_id = ?", authorID).First(&snapshot).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	snapshot.TotalViews = uint(totalViews)
	snapshot.AvgRating = reviewStats.Avg
	snapshot.TotalReviews = uint(reviewStats.Total)
	snapshot.LastUpdated = time.Now()

	if err := r.db.Save(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RecomputeAll rebuilds every category and author snapshot. Snapshots
// for deleted catalog rows disappear with the cascade, so iterating the
// live catalog covers everything.
func (r *Repository) RecomputeAll() error {
	var categoryIDs []uint
	if err := r.db.Model(&entities.Category{}).Pluck("id", &categoryIDs).Error; err != nil {
		return err
	}
	for _, id := range categoryIDs {
		if _, err := r.RecomputeCategoryAnalytics(id); err != nil {
			return fmt.Errorf("recompute category %d: %w", id, err)
		}
	}

	var authorIDs []uint
	if err := r.db.Model(&entities.Author{}).Pluck("id", &authorIDs).Error; err != nil {
		return err
	}
	for _, id := range authorIDs {
		if _, err := r.RecomputeAuthorAnalytics(id); err != nil {
			return fmt.Errorf("recompute author %d: %w", id, err)
		}
	}
	return nil
}

// GetCategoryAnalytics retrieves the current snapshot for a category.
func (r *Repository) GetCategoryAnalytics(categoryID uint) (*entities.CategoryAnalytics, error) {
	var snapshot entities.CategoryAnalytics
	err := r.db.Where("category_id = ?", categoryID).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: analytics for category %d", database.ErrNotFound, categoryID)
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetAuthorAnalytics retrieves the current snapshot for an author.
func (r *Repository) GetAuthorAnalytics(authorID uint) (*entities.AuthorAnalytics, error) {
	var snapshot entities.AuthorAnalytics
	err := r.db.Where("author_id = ?", authorID).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: analytics for author %d", database.ErrNotFound, authorID)
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
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
