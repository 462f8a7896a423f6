// Package accounts provides database operations for user accounts,
// reading lists and book reviews.
//
// # Usage
//
//	repo := accounts.NewRepository(db)
//	user, err := repo.CreateUser("imorozova", "ira@example.org", "correct horse battery")
//	review, err := repo.CreateReview(user.ID, bookID, 4, "worth rereading")
package accounts

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/entities"
)

// Repository handles all account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Users ---

// CreateUser creates a user with a bcrypt-hashed password. Username and
// email must be unique.
func (r *Repository) CreateUser(username, email, password string) (*entities.User, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", database.ErrValidation)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username or email already taken", database.ErrConstraintViolation)
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already taken", database.ErrConstraintViolation)
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user with favorite categories and reading lists.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("FavoriteCategories").Preload("ReadingLists").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", database.ErrNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates a user's bio and profile image.
func (r *Repository) UpdateProfile(userID uint, bio, profileImage string) error {
	if err := r.ensureExists(&entities.User{}, userID, "user"); err != nil {
		return err
	}
	return r.db.Model(&entities.User{}).Where("id = ?", userID).
		Updates(map[string]any{"bio": bio, "profile_image": profileImage}).Error
}

// DeleteUser removes an account and the user's loans, reservations,
// reading lists, reviews and recommendation logs. View history is kept
// with the user reference cleared.
func (r *Repository) DeleteUser(id uint) error {
	if err := r.ensureExists(&entities.User{}, id, "user"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("borrower_id = ?", id).Delete(&entities.BookLoan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM reading_list_books WHERE reading_list_id IN (SELECT id FROM reading_lists WHERE user_id = ?)",
			id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.ReadingList{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.BookReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.RecommendationLog{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_favorite_categories WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		// Views stay behind anonymously.
		if err := tx.Model(&entities.BookView{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.User{}, id).Error
	})
}

// AddFavoriteCategory marks a category as one of the user's favorites.
func (r *Repository) AddFavoriteCategory(userID, categoryID uint) error {
	var user entities.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", database.ErrNotFound, userID)
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
	return r.db.Model(&user).Association("FavoriteCategories").Append(&category)
}

// RemoveFavoriteCategory removes a category from the user's favorites.
func (r *Repository) RemoveFavoriteCategory(userID, categoryID uint) error {
	var user entities.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", database.ErrNotFound, userID)
		}
		return err
	}
	return r.db.Model(&user).Association("FavoriteCategories").Delete(&entities.Category{ID: categoryID})
}

// --- Reading lists ---

// CreateReadingList creates a reading list owned by a user.
func (r *Repository) CreateReadingList(list *entities.ReadingList) error {
	if list.Name == "" {
		return fmt.Errorf("%w: reading list name is required", database.ErrValidation)
	}
	if err := r.ensureExists(&entities.User{}, list.UserID, "user"); err != nil {
		return err
	}
	return r.db.Omit("User", "Books").Create(list).Error
}

// GetReadingListByID retrieves a reading list with its books.
func (r *Repository) GetReadingListByID(id uint) (*entities.ReadingList, error) {
	var list entities.ReadingList
	err := r.db.Preload("Books.Author").First(&list, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: reading list %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetReadingListsForUser returns a user's reading lists, newest first.
func (r *Repository) GetReadingListsForUser(userID uint) ([]entities.ReadingList, error) {
	var lists []entities.ReadingList
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&lists).Error
	return lists, err
}

// GetPublicReadingLists returns all public reading lists.
func (r *Repository) GetPublicReadingLists() ([]entities.ReadingList, error) {
	var lists []entities.ReadingList
	err := r.db.Where("is_public = ?", true).Order("created_at DESC").Find(&lists).Error
	return lists, err
}

// AddBookToReadingList adds a book to a reading list.
func (r *Repository) AddBookToReadingList(listID, bookID uint) error {
	var list entities.ReadingList
	if err := r.db.First(&list, listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reading list %d", database.ErrNotFound, listID)
		}
		return err
	}
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: book %d", database.ErrNotFound, bookID)
		}
		return err
	}
	return r.db.Model(&list).Association("Books").Append(&book)
}

// RemoveBookFromReadingList removes a book from a reading list.
func (r *Repository) RemoveBookFromReadingList(listID, bookID uint) error {
	var list entities.ReadingList
	if err := r.db.First(&list, listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reading list %d", database.ErrNotFound, listID)
		}
		return err
	}
	return r.db.Model(&list).Association("Books").Delete(&entities.Book{ID: bookID})
}

// DeleteReadingList removes a reading list and its book associations.
func (r *Repository) DeleteReadingList(id uint) error {
	if err := r.ensureExists(&entities.ReadingList{}, id, "reading list"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM reading_list_books WHERE reading_list_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.ReadingList{}, id).Error
	})
}

// --- Reviews ---

// CreateReview records a user's review of a book. Rating must be an
// integer in [1,5] and each user may review a book at most once; a
// second attempt fails rather than overwriting.
func (r *Repository) CreateReview(userID, bookID uint, rating int, comment string) (*entities.BookReview, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating %d outside [1,5]", database.ErrValidation, rating)
	}
	if err := r.ensureExists(&entities.User{}, userID, "user"); err != nil {
		return nil, err
	}
	if err := r.ensureExists(&entities.Book{}, bookID, "book"); err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.Model(&entities.BookReview{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: user %d already reviewed book %d",
			database.ErrConstraintViolation, userID, bookID)
	}

	review := &entities.BookReview{
		UserID:  userID,
		BookID:  bookID,
		Rating:  rating,
		Comment: comment,
	}
	if err := r.db.Omit("User", "Book").Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user %d already reviewed book %d",
				database.ErrConstraintViolation, userID, bookID)
		}
		return nil, err
	}
	return review, nil
}

// GetReviewsForBook returns a book's reviews, newest first.
func (r *Repository) GetReviewsForBook(bookID uint) ([]entities.BookReview, error) {
	var reviews []entities.BookReview
	err := r.db.Where("book_id = ?", bookID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// GetReviewsForUser returns a user's reviews, newest first.
func (r *Repository) GetReviewsForUser(userID uint) ([]entities.BookReview, error) {
	var reviews []entities.BookReview
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// DeleteReview removes a single review.
func (r *Repository) DeleteReview(id uint) error {
	if err := r.ensureExists(&entities.BookReview{}, id, "review"); err != nil {
		return err
	}
	return r.db.Delete(&entities.BookReview{}, id).Error
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
