package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "palco/internal/errors"
	"palco/internal/pagination"
	"palco/internal/services"
)

// ContractorHandler handles contractor-related requests.
type ContractorHandler struct {
	contractorService services.ContractorServicer
	auditService      services.AuditServicer
}

// NewContractorHandler creates a new ContractorHandler.
func NewContractorHandler(contractorService services.ContractorServicer, auditService services.AuditServicer) *ContractorHandler {
	return &ContractorHandler{contractorService: contractorService, auditService: auditService}
}

// ContractorRequest represents the request payload for creating or updating a contractor
type ContractorRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Contact string `json:"contact" binding:"max=100"`
}

// ContractorResponse represents a contractor in the response
type ContractorResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// CreateContractor handles the creation of a new contractor
// @Summary     Create a contractor
// @Description Create a new contractor
// @Tags        contractors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ContractorRequest true "Contractor details"
// @Success     201 {object} ContractorResponse "Contractor created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contractors [post]
func (h *ContractorHandler) CreateContractor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	contractor, err := h.contractorService.CreateContractor(userID, req.Name, req.Email, req.Contact)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CONTRACTOR", "contractor", contractor.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"contractor": contractor})
}

// GetUserContractors handles the retrieval of all contractors for the authenticated user
// @Summary     Get user contractors
// @Description Get a paginated list of the authenticated user's contractors
// @Tags        contractors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Contractor] "Paginated contractors"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contractors [get]
func (h *ContractorHandler) GetUserContractors(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.contractorService.GetUserContractors(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetContractorByID handles the retrieval of a specific contractor
// @Summary     Get contractor by ID
// @Description Get a specific contractor by ID
// @Tags        contractors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Contractor ID"
// @Success     200 {object} ContractorResponse "Contractor details"
// @Failure     400 {object} ErrorResponse "Invalid contractor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contractor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contractors/{id} [get]
func (h *ContractorHandler) GetContractorByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contractorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contractor, err := h.contractorService.GetContractorByID(userID, contractorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// UpdateContractor handles updating an existing contractor
// @Summary     Update contractor
// @Description Update an existing contractor
// @Tags        contractors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Contractor ID"
// @Param       request body ContractorRequest true "Contractor details"
// @Success     200 {object} ContractorResponse "Updated contractor"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contractor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contractors/{id} [put]
func (h *ContractorHandler) UpdateContractor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contractorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	contractor, err := h.contractorService.UpdateContractor(userID, contractorID, req.Name, req.Email, req.Contact)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CONTRACTOR", "contractor", contractorID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// DeleteContractor handles the deletion of a contractor
// @Summary     Delete contractor
// @Description Delete a contractor by ID
// @Tags        contractors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Contractor ID"
// @Success     200 {object} MessageResponse "Contractor deleted"
// @Failure     400 {object} ErrorResponse "Invalid contractor ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contractor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contractors/{id} [delete]
func (h *ContractorHandler) DeleteContractor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contractorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.contractorService.DeleteContractor(userID, contractorID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CONTRACTOR", "contractor", contractorID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Contractor deleted successfully"})
}
