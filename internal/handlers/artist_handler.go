package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "palco/internal/errors"
	"palco/internal/pagination"
	"palco/internal/services"
)

// ArtistHandler handles artist-related requests.
type ArtistHandler struct {
	artistService services.ArtistServicer
	auditService  services.AuditServicer
}

// NewArtistHandler creates a new ArtistHandler.
func NewArtistHandler(artistService services.ArtistServicer, auditService services.AuditServicer) *ArtistHandler {
	return &ArtistHandler{artistService: artistService, auditService: auditService}
}

// ArtistRequest represents the request payload for creating or updating an artist
type ArtistRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Contact string `json:"contact" binding:"max=100"`
}

// ArtistResponse represents an artist in the response
type ArtistResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// CreateArtist handles the creation of a new artist
// @Summary     Create an artist
// @Description Create a new artist
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ArtistRequest true "Artist details"
// @Success     201 {object} ArtistResponse "Artist created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists [post]
func (h *ArtistHandler) CreateArtist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	artist, err := h.artistService.CreateArtist(userID, req.Name, req.Email, req.Contact)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ARTIST", "artist", artist.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"artist": artist})
}

// GetUserArtists handles the retrieval of all artists for the authenticated user
// @Summary     Get user artists
// @Description Get a paginated list of the authenticated user's artists
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Artist] "Paginated artists"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists [get]
func (h *ArtistHandler) GetUserArtists(c *gin.Context) {
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

	result, err := h.artistService.GetUserArtists(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetArtistByID handles the retrieval of a specific artist
// @Summary     Get artist by ID
// @Description Get a specific artist by ID
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Artist ID"
// @Success     200 {object} ArtistResponse "Artist details"
// @Failure     400 {object} ErrorResponse "Invalid artist ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id} [get]
func (h *ArtistHandler) GetArtistByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artistID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	artist, err := h.artistService.GetArtistByID(userID, artistID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"artist": artist})
}

// UpdateArtist handles updating an existing artist
// @Summary     Update artist
// @Description Update an existing artist
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Artist ID"
// @Param       request body ArtistRequest true "Artist details"
// @Success     200 {object} ArtistResponse "Updated artist"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id} [put]
func (h *ArtistHandler) UpdateArtist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artistID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	artist, err := h.artistService.UpdateArtist(userID, artistID, req.Name, req.Email, req.Contact)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ARTIST", "artist", artistID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"artist": artist})
}

// DeleteArtist handles the deletion of an artist
// @Summary     Delete artist
// @Description Delete an artist by ID
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Artist ID"
// @Success     200 {object} MessageResponse "Artist deleted"
// @Failure     400 {object} ErrorResponse "Invalid artist ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id} [delete]
func (h *ArtistHandler) DeleteArtist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artistID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.artistService.DeleteArtist(userID, artistID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ARTIST", "artist", artistID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Artist deleted successfully"})
}
