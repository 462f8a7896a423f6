package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AnalyticsController exposes usage data, recommendation logging and
// the derived popularity snapshots. Snapshot refresh normally runs on
// the background schedule; RefreshSnapshots triggers it on demand.
type AnalyticsController struct {
	store     AnalyticsStore
	refresher SnapshotRefresher
}

func NewAnalyticsController(store AnalyticsStore, refresher SnapshotRefresher) *AnalyticsController {
	return &AnalyticsController{
		store:     store,
		refresher: refresher,
	}
}

// GetRecentViews lists the latest recorded page views.
// GET /admin/analytics/views
func (ac *AnalyticsController) GetRecentViews(c *gin.Context) {
	views, err := ac.store.GetRecentViews(50)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"views": views, "count": len(views)})
}

// GetBookViewCount returns the total view count for one book.
// GET /api/books/:id/views
func (ac *AnalyticsController) GetBookViewCount(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	count, err := ac.store.GetViewCountForBook(bookID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book_id": bookID, "views": count})
}

// LogRecommendation records that a book was recommended to a user.
// POST /api/recommendations
func (ac *AnalyticsController) LogRecommendation(c *gin.Context) {
	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		BookID uint   `json:"book_id" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id, book_id and reason are required")
		return
	}

	entry, err := ac.store.LogRecommendation(req.UserID, req.BookID, req.Reason)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, entry)
}

// MarkRecommendationClicked records that a recommendation was followed.
// POST /api/recommendations/:id/clicked
func (ac *AnalyticsController) MarkRecommendationClicked(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.MarkRecommendationClicked(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "recommendation marked clicked")
}

// GetRecommendationsForUser lists the recommendations a user received.
// GET /api/users/:id/recommendations
func (ac *AnalyticsController) GetRecommendationsForUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entries, err := ac.store.GetRecommendationsForUser(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": entries, "count": len(entries)})
}

// GetCategorySnapshot returns the derived snapshot for one category.
// GET /api/analytics/categories/:id
func (ac *AnalyticsController) GetCategorySnapshot(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	snapshot, err := ac.store.GetCategoryAnalytics(categoryID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetAuthorSnapshot returns the derived snapshot for one author.
// GET /api/analytics/authors/:id
func (ac *AnalyticsController) GetAuthorSnapshot(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	snapshot, err := ac.store.GetAuthorAnalytics(authorID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RefreshSnapshots queues an immediate recompute of every snapshot.
// POST /admin/analytics/refresh
func (ac *AnalyticsController) RefreshSnapshots(c *gin.Context) {
	if ac.refresher == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "analytics refresh is not configured"})
		return
	}
	ac.refresher.RunNow()
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "analytics refresh queued"})
}
