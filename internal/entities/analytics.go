package entities

import (
	"time"
)

// BookView records a single catalog page view. The user reference is
// optional and is cleared when the user account is removed so that view
// history survives anonymously.
type BookView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"index" json:"book_id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

// CategoryAnalytics is a derived snapshot, one row per category,
// rebuilt by the periodic recompute pass.
type CategoryAnalytics struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CategoryID      uint      `gorm:"uniqueIndex" json:"category_id"`
	TotalViews      uint      `gorm:"default:0" json:"total_views"`
	TotalBooks      uint      `gorm:"default:0" json:"total_books"`
	PopularityScore float64   `gorm:"default:0" json:"popularity_score"`
	LastUpdated     time.Time `json:"last_updated"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// AuthorAnalytics is a derived snapshot, one row per author.
type AuthorAnalytics struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"uniqueIndex" json:"author_id"`
	TotalViews   uint      `gorm:"default:0" json:"total_views"`
	AvgRating    float64   `gorm:"default:0" json:"avg_rating"`
	TotalReviews uint      `gorm:"default:0" json:"total_reviews"`
	LastUpdated  time.Time `json:"last_updated"`

	Author Author `gorm:"foreignKey:AuthorID" json:"-"`
}

type RecommendationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	BookID    uint      `gorm:"index" json:"book_id"`
	Reason    string    `gorm:"size:100" json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	Clicked   bool      `gorm:"default:false" json:"clicked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

func (BookView) TableName() string {
	return "book_views"
}

func (CategoryAnalytics) TableName() string {
	return "category_analytics"
}

func (AuthorAnalytics) TableName() string {
	return "author_analytics"
}

func (RecommendationLog) TableName() string {
	return "recommendation_logs"
}
