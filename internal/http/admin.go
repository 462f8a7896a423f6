package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/biblio/internal/entities"
)

// AdminController exposes the catalog maintenance endpoints: authors,
// categories, publishers, books and publications.
type AdminController struct {
	store CatalogAdmin
}

func NewAdminController(store CatalogAdmin) *AdminController {
	return &AdminController{store: store}
}

// CreateAuthor registers a new author.
// POST /admin/authors
func (ac *AdminController) CreateAuthor(c *gin.Context) {
	var req struct {
		Name      string     `json:"name" binding:"required"`
		Biography string     `json:"biography"`
		BirthDate *time.Time `json:"birth_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	author := entities.Author{
		Name:      req.Name,
		Biography: req.Biography,
		BirthDate: req.BirthDate,
	}
	if err := ac.store.CreateAuthor(&author); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, author)
}

// UpdateAuthor rewrites an author's descriptive fields.
// PUT /admin/authors/:id
func (ac *AdminController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name      string     `json:"name" binding:"required"`
		Biography string     `json:"biography"`
		BirthDate *time.Time `json:"birth_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	author, err := ac.store.GetAuthorByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	author.Name = req.Name
	author.Biography = req.Biography
	author.BirthDate = req.BirthDate
	if err := ac.store.UpdateAuthor(author); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// SetAuthorProfile creates or replaces the one-to-one profile record.
// PUT /admin/authors/:id/profile
func (ac *AdminController) SetAuthorProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Website       string `json:"website"`
		TwitterHandle string `json:"twitter_handle"`
		Photo         string `json:"photo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile payload")
		return
	}

	profile := entities.AuthorProfile{
		AuthorID:      id,
		Website:       req.Website,
		TwitterHandle: req.TwitterHandle,
		Photo:         req.Photo,
	}
	if err := ac.store.SetAuthorProfile(&profile); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteAuthor removes an author and everything hanging off them.
// DELETE /admin/authors/:id
func (ac *AdminController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.DeleteAuthor(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "author deleted")
}

// CreateCategory adds a category; the slug is derived from the name
// when not supplied.
// POST /admin/categories
func (ac *AdminController) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category := entities.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := ac.store.CreateCategory(&category); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, category)
}

// UpdateCategory renames a category. The slug is left untouched so
// existing links keep working.
// PUT /admin/categories/:id
func (ac *AdminController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category, err := ac.store.GetCategoryByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := ac.store.UpdateCategory(category); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category and detaches its books.
// DELETE /admin/categories/:id
func (ac *AdminController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.DeleteCategory(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "category deleted")
}

// GetAllPublishers lists publishers for the admin screens.
// GET /admin/publishers
func (ac *AdminController) GetAllPublishers(c *gin.Context) {
	publishers, err := ac.store.GetAllPublishers()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publishers": publishers, "count": len(publishers)})
}

// CreatePublisher registers a publisher.
// POST /admin/publishers
func (ac *AdminController) CreatePublisher(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Website string `json:"website"`
		Email   string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	publisher := entities.Publisher{
		Name:    req.Name,
		Website: req.Website,
		Email:   req.Email,
	}
	if err := ac.store.CreatePublisher(&publisher); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, publisher)
}

// UpdatePublisher rewrites a publisher's fields.
// PUT /admin/publishers/:id
func (ac *AdminController) UpdatePublisher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		Website string `json:"website"`
		Email   string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	publisher, err := ac.store.GetPublisherByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	publisher.Name = req.Name
	publisher.Website = req.Website
	publisher.Email = req.Email
	if err := ac.store.UpdatePublisher(publisher); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, publisher)
}

// DeletePublisher removes a publisher and its publications.
// DELETE /admin/publishers/:id
func (ac *AdminController) DeletePublisher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.DeletePublisher(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "publisher deleted")
}

// CreateBook registers a book under an existing author.
// POST /admin/books
func (ac *AdminController) CreateBook(c *gin.Context) {
	var req struct {
		Title           string     `json:"title" binding:"required"`
		ISBN            string     `json:"isbn" binding:"required"`
		AuthorID        uint       `json:"author_id" binding:"required"`
		Summary         string     `json:"summary"`
		PublicationDate *time.Time `json:"publication_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, isbn and author_id are required")
		return
	}

	book := entities.Book{
		Title:           req.Title,
		ISBN:            req.ISBN,
		AuthorID:        req.AuthorID,
		Summary:         req.Summary,
		PublicationDate: req.PublicationDate,
	}
	if err := ac.store.CreateBook(&book); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, book)
}

// UpdateBook rewrites a book's descriptive fields.
// PUT /admin/books/:id
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title           string     `json:"title" binding:"required"`
		ISBN            string     `json:"isbn" binding:"required"`
		AuthorID        uint       `json:"author_id" binding:"required"`
		Summary         string     `json:"summary"`
		PublicationDate *time.Time `json:"publication_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, isbn and author_id are required")
		return
	}

	book, err := ac.store.GetBookByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	book.Title = req.Title
	book.ISBN = req.ISBN
	book.AuthorID = req.AuthorID
	book.Summary = req.Summary
	book.PublicationDate = req.PublicationDate
	if err := ac.store.UpdateBook(book); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book together with its copies, loans,
// reservations, reviews and publications.
// DELETE /admin/books/:id
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.DeleteBook(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "book deleted")
}

// AddBookToCategory links a book and a category.
// POST /admin/books/:id/categories/:categoryID
func (ac *AdminController) AddBookToCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	if err := ac.store.AddBookToCategory(bookID, categoryID); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "book added to category")
}

// RemoveBookFromCategory unlinks a book from a category.
// DELETE /admin/books/:id/categories/:categoryID
func (ac *AdminController) RemoveBookFromCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	if err := ac.store.RemoveBookFromCategory(bookID, categoryID); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "book removed from category")
}

// CreatePublication records a country edition of a book at a publisher.
// POST /admin/publications
func (ac *AdminController) CreatePublication(c *gin.Context) {
	var req struct {
		BookID        uint      `json:"book_id" binding:"required"`
		PublisherID   uint      `json:"publisher_id" binding:"required"`
		Country       string    `json:"country" binding:"required"`
		DatePublished time.Time `json:"date_published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id, publisher_id and country are required")
		return
	}

	pub := entities.Publication{
		BookID:        req.BookID,
		PublisherID:   req.PublisherID,
		Country:       req.Country,
		DatePublished: req.DatePublished,
	}
	if err := ac.store.CreatePublication(&pub); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, pub)
}

// DeletePublication removes a single edition record.
// DELETE /admin/publications/:id
func (ac *AdminController) DeletePublication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.DeletePublication(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "publication deleted")
}
