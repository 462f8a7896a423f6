package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/biblio/internal/entities"
)

// AccountsController exposes user, reading list and review endpoints.
type AccountsController struct {
	store AccountsStore
}

func NewAccountsController(store AccountsStore) *AccountsController {
	return &AccountsController{store: store}
}

// Register creates a user account. The password is hashed before it
// ever reaches storage and never appears in a response.
// POST /api/users
func (uc *AccountsController) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username, email and password are required")
		return
	}

	user, err := uc.store.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, user)
}

// GetUser returns a user with favorites, reading lists and reviews.
// GET /api/users/:id
func (uc *AccountsController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := uc.store.GetUserByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the free-form profile fields.
// PUT /api/users/:id/profile
func (uc *AccountsController) UpdateProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Bio          string `json:"bio"`
		ProfileImage string `json:"profile_image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile payload")
		return
	}

	if err := uc.store.UpdateProfile(id, req.Bio, req.ProfileImage); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "profile updated")
}

// DeleteUser removes an account. Loans, reservations, lists and
// reviews go with it; view history is kept anonymously.
// DELETE /api/users/:id
func (uc *AccountsController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := uc.store.DeleteUser(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "user deleted")
}

// AddFavoriteCategory marks a category as a user's favorite.
// POST /api/users/:id/favorites/:categoryID
func (uc *AccountsController) AddFavoriteCategory(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	if err := uc.store.AddFavoriteCategory(userID, categoryID); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "category added to favorites")
}

// RemoveFavoriteCategory drops a category from a user's favorites.
// DELETE /api/users/:id/favorites/:categoryID
func (uc *AccountsController) RemoveFavoriteCategory(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	if err := uc.store.RemoveFavoriteCategory(userID, categoryID); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "category removed from favorites")
}

// CreateReadingList starts a new, optionally public, reading list.
// POST /api/users/:id/lists
func (uc *AccountsController) CreateReadingList(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	list := entities.ReadingList{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	if err := uc.store.CreateReadingList(&list); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, list)
}

// GetReadingListsForUser lists a user's reading lists.
// GET /api/users/:id/lists
func (uc *AccountsController) GetReadingListsForUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lists, err := uc.store.GetReadingListsForUser(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists, "count": len(lists)})
}

// GetPublicReadingLists lists every list shared publicly.
// GET /api/lists
func (uc *AccountsController) GetPublicReadingLists(c *gin.Context) {
	lists, err := uc.store.GetPublicReadingLists()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists, "count": len(lists)})
}

// GetReadingList returns one list with its books.
// GET /api/lists/:id
func (uc *AccountsController) GetReadingList(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	list, err := uc.store.GetReadingListByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddBookToReadingList appends a book to a list.
// POST /api/lists/:id/books/:bookID
func (uc *AccountsController) AddBookToReadingList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookID")
	if !ok {
		return
	}
	if err := uc.store.AddBookToReadingList(listID, bookID); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "book added to list")
}

// RemoveBookFromReadingList drops a book from a list.
// DELETE /api/lists/:id/books/:bookID
func (uc *AccountsController) RemoveBookFromReadingList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookID")
	if !ok {
		return
	}
	if err := uc.store.RemoveBookFromReadingList(listID, bookID); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "book removed from list")
}

// DeleteReadingList removes a list and its book links.
// DELETE /api/lists/:id
func (uc *AccountsController) DeleteReadingList(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := uc.store.DeleteReadingList(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "list deleted")
}

// CreateReview posts a rating for a book. One review per user per
// book; ratings run from 1 to 5.
// POST /api/books/:id/reviews
func (uc *AccountsController) CreateReview(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID  uint   `json:"user_id" binding:"required"`
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id and rating are required")
		return
	}

	review, err := uc.store.CreateReview(req.UserID, bookID, req.Rating, req.Comment)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, review)
}

// GetReviewsForBook lists a book's reviews, newest first.
// GET /api/books/:id/reviews
func (uc *AccountsController) GetReviewsForBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviews, err := uc.store.GetReviewsForBook(bookID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// GetReviewsForUser lists everything a user has reviewed.
// GET /api/users/:id/reviews
func (uc *AccountsController) GetReviewsForUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviews, err := uc.store.GetReviewsForUser(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// DeleteReview removes a review.
// DELETE /api/reviews/:id
func (uc *AccountsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := uc.store.DeleteReview(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "review deleted")
}
