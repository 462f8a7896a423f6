package entities

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string `gorm:"size:100" json:"-"`
	Bio          string `gorm:"type:text" json:"bio,omitempty"`
	ProfileImage string `gorm:"size:1024" json:"profile_image,omitempty"`

	FavoriteCategories []Category    `gorm:"many2many:user_favorite_categories;" json:"favorite_categories,omitempty"`
	ReadingLists       []ReadingList `gorm:"foreignKey:UserID" json:"reading_lists,omitempty"`
	Reviews            []BookReview  `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
	Loans              []BookLoan    `gorm:"foreignKey:BorrowerID" json:"loans,omitempty"`
	Reservations       []Reservation `gorm:"foreignKey:UserID" json:"reservations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReadingList struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index" json:"user_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	IsPublic    bool   `gorm:"default:false" json:"is_public"`

	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Books []Book `gorm:"many2many:reading_list_books;" json:"books,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookReview holds a rating between 1 and 5. At most one review
// per (user, book) pair.
type BookReview struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"uniqueIndex:idx_reviews_user_book" json:"user_id"`
	BookID  uint   `gorm:"uniqueIndex:idx_reviews_user_book" json:"book_id"`
	Rating  int    `json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (ReadingList) TableName() string {
	return "reading_lists"
}

func (BookReview) TableName() string {
	return "book_reviews"
}
