package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogController serves the public read-only catalog pages.
type CatalogController struct {
	reader    CatalogReader
	analytics AnalyticsStore
}

func NewCatalogController(reader CatalogReader, analytics AnalyticsStore) *CatalogController {
	return &CatalogController{
		reader:    reader,
		analytics: analytics,
	}
}

// HomeStats returns the library statistics for the home page: entity
// totals, top categories by book count and the most recent books.
func (controller *CatalogController) HomeStats(c *gin.Context) {
	totals, err := controller.reader.GetTotals()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	topCategories, err := controller.reader.GetTopCategories(5)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	recentBooks, err := controller.reader.GetRecentBooks(5)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"total_books":      totals.Books,
		"total_authors":    totals.Authors,
		"total_categories": totals.Categories,
		"total_publishers": totals.Publishers,
		"categories":       topCategories,
		"recent_books":     recentBooks,
	})
}

// ListAuthors returns all authors, or matching authors when ?q= is set.
func (controller *CatalogController) ListAuthors(c *gin.Context) {
	var err error
	var authors any
	if query := c.Query("q"); query != "" {
		authors, err = controller.reader.SearchAuthors(query)
	} else {
		authors, err = controller.reader.GetAllAuthors()
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"authors": authors})
}

// AuthorDetail returns one author with profile and books.
func (controller *CatalogController) AuthorDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := controller.reader.GetAuthorByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, author)
}

// ListBooks returns all books, or matching books when ?q= is set.
// Search covers title, author name and ISBN.
func (controller *CatalogController) ListBooks(c *gin.Context) {
	var err error
	var books any
	if query := c.Query("q"); query != "" {
		books, err = controller.reader.SearchBooks(query)
	} else {
		books, err = controller.reader.GetAllBooks()
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books})
}

// BookDetail returns one book with author, categories and publication
// editions, and logs the page view. An optional ?user= parameter
// attributes the view.
func (controller *CatalogController) BookDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := controller.reader.GetBookByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	var viewer *uint
	if userID, ok := parseOptionalUintQuery(c, "user"); !ok {
		return
	} else if userID != 0 {
		viewer = &userID
	}
	// View logging must not break the page.
	if _, err := controller.analytics.RecordBookView(book.ID, viewer); err != nil {
		log.Printf("Failed to record view of book %d: %v", book.ID, err)
	}

	c.IndentedJSON(http.StatusOK, book)
}

// ListCategories returns all categories with book counts.
func (controller *CatalogController) ListCategories(c *gin.Context) {
	categories, err := controller.reader.GetAllCategories()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"categories": categories})
}

// CategoryDetail returns one category and its books, looked up by slug.
func (controller *CatalogController) CategoryDetail(c *gin.Context) {
	category, err := controller.reader.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, category)
}
