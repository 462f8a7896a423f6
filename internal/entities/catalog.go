package entities

import (
	"time"
)

type Author struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"index;size:100;not null" json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Biography string     `gorm:"type:text" json:"biography,omitempty"`

	Profile *AuthorProfile `gorm:"foreignKey:AuthorID" json:"profile,omitempty"`
	Books   []Book         `gorm:"foreignKey:AuthorID" json:"books,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorProfile shares its identity key with the owning author.
type AuthorProfile struct {
	AuthorID      uint   `gorm:"primaryKey" json:"author_id"`
	Website       string `gorm:"size:2048" json:"website,omitempty"`
	TwitterHandle string `gorm:"size:50" json:"twitter_handle,omitempty"`
	Photo         string `gorm:"size:1024" json:"photo,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Slug        string `gorm:"uniqueIndex;size:60" json:"slug"`

	Books []Book `gorm:"many2many:book_categories;" json:"books,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Publisher struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"index;size:100;not null" json:"name"`
	Website string `gorm:"size:2048" json:"website,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`

	Publications []Publication `gorm:"foreignKey:PublisherID" json:"publications,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"index;size:200;not null" json:"title"`
	AuthorID        uint       `gorm:"index" json:"author_id"`
	ISBN            string     `gorm:"uniqueIndex;size:13" json:"isbn"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	Summary         string     `gorm:"type:text" json:"summary,omitempty"`

	Author       Author        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories   []Category    `gorm:"many2many:book_categories;" json:"categories,omitempty"`
	Publications []Publication `gorm:"foreignKey:BookID" json:"publications,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Publication links a book to a publisher for a given country edition.
// At most one edition per (book, publisher, country).
type Publication struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BookID        uint      `gorm:"uniqueIndex:idx_publications_edition" json:"book_id"`
	PublisherID   uint      `gorm:"uniqueIndex:idx_publications_edition" json:"publisher_id"`
	Country       string    `gorm:"uniqueIndex:idx_publications_edition;size:50" json:"country"`
	DatePublished time.Time `json:"date_published"`

	Book      Book      `gorm:"foreignKey:BookID" json:"-"`
	Publisher Publisher `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (AuthorProfile) TableName() string {
	return "author_profiles"
}

func (Category) TableName() string {
	return "categories"
}

func (Publisher) TableName() string {
	return "publishers"
}

func (Book) TableName() string {
	return "books"
}

func (Publication) TableName() string {
	return "publications"
}
