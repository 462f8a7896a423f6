package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/biblio/internal/entities"
)

// CirculationController exposes branch inventory and lending endpoints.
type CirculationController struct {
	store CirculationStore
}

func NewCirculationController(store CirculationStore) *CirculationController {
	return &CirculationController{store: store}
}

// GetAllBranches lists library branches.
// GET /api/branches
func (cc *CirculationController) GetAllBranches(c *gin.Context) {
	branches, err := cc.store.GetAllBranches()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches, "count": len(branches)})
}

// GetBranch returns one branch with its inventory.
// GET /api/branches/:id
func (cc *CirculationController) GetBranch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	branch, err := cc.store.GetBranchByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

// CreateBranch registers a library branch.
// POST /admin/branches
func (cc *CirculationController) CreateBranch(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		Address      string `json:"address"`
		Phone        string `json:"phone"`
		Email        string `json:"email"`
		OpeningHours string `json:"opening_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	branch := entities.LibraryBranch{
		Name:         req.Name,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		OpeningHours: req.OpeningHours,
	}
	if err := cc.store.CreateBranch(&branch); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, branch)
}

// DeleteBranch removes a branch and its copies.
// DELETE /admin/branches/:id
func (cc *CirculationController) DeleteBranch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.store.DeleteBranch(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "branch deleted")
}

// GetCopiesForBook lists the physical copies of a book. With
// ?available=true and ?branch=N it narrows to available copies at
// one branch.
// GET /api/books/:id/copies
func (cc *CirculationController) GetCopiesForBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var copies []entities.BookCopy
	var err error
	if c.Query("available") == "true" {
		branchID, bok := parseOptionalUintQuery(c, "branch")
		if !bok {
			return
		}
		copies, err = cc.store.GetAvailableCopies(bookID, branchID)
	} else {
		copies, err = cc.store.GetCopiesForBook(bookID)
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copies": copies, "count": len(copies)})
}

// CreateCopy adds a physical copy to a branch's inventory.
// POST /admin/copies
func (cc *CirculationController) CreateCopy(c *gin.Context) {
	var req struct {
		BookID          uint      `json:"book_id" binding:"required"`
		BranchID        uint      `json:"branch_id" binding:"required"`
		InventoryNumber string    `json:"inventory_number" binding:"required"`
		Condition       string    `json:"condition"`
		AcquisitionDate time.Time `json:"acquisition_date"`
		Notes           string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id, branch_id and inventory_number are required")
		return
	}

	copy := entities.BookCopy{
		BookID:          req.BookID,
		BranchID:        req.BranchID,
		InventoryNumber: req.InventoryNumber,
		Condition:       entities.CopyCondition(req.Condition),
		AcquisitionDate: req.AcquisitionDate,
		Notes:           req.Notes,
		IsAvailable:     true,
	}
	if err := cc.store.CreateCopy(&copy); err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, copy)
}

// UpdateCopyCondition records a condition change for a copy.
// PATCH /admin/copies/:id
func (cc *CirculationController) UpdateCopyCondition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Condition string `json:"condition"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid copy payload")
		return
	}

	copy, err := cc.store.GetCopyByID(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if req.Condition != "" {
		copy.Condition = entities.CopyCondition(req.Condition)
	}
	if req.Notes != "" {
		copy.Notes = req.Notes
	}
	if err := cc.store.UpdateCopy(copy); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, copy)
}

// SetCopyAvailability flips the availability flag on a copy.
// PUT /admin/copies/:id/availability
func (cc *CirculationController) SetCopyAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "available is required")
		return
	}

	if err := cc.store.SetCopyAvailability(id, *req.Available); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "copy availability updated")
}

// DeleteCopy retires a copy from the inventory.
// DELETE /admin/copies/:id
func (cc *CirculationController) DeleteCopy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.store.DeleteCopy(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "copy deleted")
}

// Checkout lends a copy to a borrower. The due date must fall after
// the checkout date. The availability flag is not consulted; desk
// workflows toggle it separately.
// POST /api/loans
func (cc *CirculationController) Checkout(c *gin.Context) {
	var req struct {
		CopyID       uint       `json:"copy_id" binding:"required"`
		BorrowerID   uint       `json:"borrower_id" binding:"required"`
		CheckoutDate *time.Time `json:"checkout_date"`
		DueDate      time.Time  `json:"due_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "copy_id, borrower_id and due_date are required")
		return
	}

	checkout := time.Now()
	if req.CheckoutDate != nil {
		checkout = *req.CheckoutDate
	}

	loan, err := cc.store.CheckoutCopy(req.CopyID, req.BorrowerID, checkout, req.DueDate)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, loan)
}

// GetLoansForUser lists a borrower's loans, newest first.
// GET /api/users/:id/loans
func (cc *CirculationController) GetLoansForUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	loans, err := cc.store.GetLoansForUser(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

// GetActiveLoans lists every loan still out.
// GET /admin/loans/active
func (cc *CirculationController) GetActiveLoans(c *gin.Context) {
	loans, err := cc.store.GetActiveLoans()
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans, "count": len(loans)})
}

// Return closes a loan and releases the copy.
// POST /api/loans/:id/return
func (cc *CirculationController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ReturnDate *time.Time `json:"return_date"`
	}
	// Body is optional; an empty body means "returned now".
	_ = c.ShouldBindJSON(&req)

	returned := time.Now()
	if req.ReturnDate != nil {
		returned = *req.ReturnDate
	}

	if err := cc.store.ReturnLoan(id, returned); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "loan returned")
}

// MarkOverdue flags an active loan as overdue.
// POST /admin/loans/:id/overdue
func (cc *CirculationController) MarkOverdue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.store.MarkLoanOverdue(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "loan marked overdue")
}

// MarkLost flags an active or overdue loan as lost.
// POST /admin/loans/:id/lost
func (cc *CirculationController) MarkLost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.store.MarkLoanLost(id); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "loan marked lost")
}

// CreateReservation places a hold on a book at a branch.
// POST /api/reservations
func (cc *CirculationController) CreateReservation(c *gin.Context) {
	var req struct {
		BookID   uint `json:"book_id" binding:"required"`
		UserID   uint `json:"user_id" binding:"required"`
		BranchID uint `json:"branch_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id, user_id and branch_id are required")
		return
	}

	reservation, err := cc.store.CreateReservation(req.BookID, req.UserID, req.BranchID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondCreated(c, reservation)
}

// GetReservationsForUser lists a user's reservations.
// GET /api/users/:id/reservations
func (cc *CirculationController) GetReservationsForUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reservations, err := cc.store.GetReservationsForUser(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "count": len(reservations)})
}

// GetPendingReservations lists the pending queue for a branch in
// request order.
// GET /admin/branches/:id/reservations
func (cc *CirculationController) GetPendingReservations(c *gin.Context) {
	branchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reservations, err := cc.store.GetPendingReservationsForBranch(branchID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "count": len(reservations)})
}

// UpdateReservationStatus advances a reservation through its lifecycle.
// PUT /api/reservations/:id/status
func (cc *CirculationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}

	if err := cc.store.UpdateReservationStatus(id, entities.ReservationStatus(req.Status)); err != nil {
		respondStoreError(c, err)
		return
	}
	respondSuccess(c, "reservation updated")
}
