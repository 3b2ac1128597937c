package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
	"palco/internal/services"
	"palco/internal/uuid"
)

// EventHandler handles event-related requests.
type EventHandler struct {
	eventService   services.EventServicer
	insightService services.InsightServicer
	auditService   services.AuditServicer
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService services.EventServicer, insightService services.InsightServicer, auditService services.AuditServicer) *EventHandler {
	return &EventHandler{
		eventService:   eventService,
		insightService: insightService,
		auditService:   auditService,
	}
}

// CreateEventRequest represents the request payload for creating an event
type CreateEventRequest struct {
	Date          string               `json:"date" binding:"required"`
	StartTime     string               `json:"start_time" binding:"omitempty,clock_time"`
	ArtistID      *string              `json:"artist_id" binding:"omitempty,uuid"`
	ContractorID  *string              `json:"contractor_id" binding:"omitempty,uuid"`
	Value         int64                `json:"value" binding:"gte=0"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	PixKey        string               `json:"pix_key" binding:"max=140"`
	Observations  string               `json:"observations" binding:"max=2000"`
}

// EventResponse represents an event in the response
type EventResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	Date          time.Time            `json:"date"`
	StartTime     string               `json:"start_time,omitempty"`
	ArtistID      *string              `json:"artist_id,omitempty"`
	ContractorID  *string              `json:"contractor_id,omitempty"`
	Value         int64                `json:"value"`
	IsDone        bool                 `json:"is_done"`
	IsPaid        bool                 `json:"is_paid"`
	IsTransferred bool                 `json:"is_transferred"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	Observations  string               `json:"observations,omitempty"`
}

// CreateEvent handles the creation of a new event
// @Summary     Create an event
// @Description Create a new performance event
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEventRequest true "Event details"
// @Success     201 {object} EventResponse "Event created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist or contractor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	eventDate, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.CreateEvent(userID, services.EventFields{
		Date:          eventDate,
		StartTime:     req.StartTime,
		ArtistID:      req.ArtistID,
		ContractorID:  req.ContractorID,
		Value:         req.Value,
		PaymentMethod: req.PaymentMethod,
		PixKey:        req.PixKey,
		Observations:  req.Observations,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EVENT", "event", event.ID, c.ClientIP(),
		map[string]interface{}{"date": req.Date, "value": req.Value})

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// GetUserEvents handles the retrieval of all events for the authenticated user
// @Summary     Get user events
// @Description Get a paginated list of events with optional filters. A from_date with no to_date matches that exact day.
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page          query int    false "Page number (default 1)"
// @Param       page_size     query int    false "Items per page (default 20, max 100)"
// @Param       artist_id     query string false "Filter by artist ID"
// @Param       contractor_id query string false "Filter by contractor ID"
// @Param       is_done       query bool   false "Filter by done status"
// @Param       is_paid       query bool   false "Filter by paid status"
// @Param       from_date     query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date       query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Event] "Paginated events"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /events [get]
func (h *EventHandler) GetUserEvents(c *gin.Context) {
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

	filter, err := parseEventFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.eventService.GetUserEvents(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseEventFilter(c *gin.Context) (services.EventFilter, error) {
	var filter services.EventFilter

	if v := c.Query("artist_id"); v != "" {
		if !uuid.IsValid(v) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid artist_id")
		}
		filter.ArtistID = &v
	}

	if v := c.Query("contractor_id"); v != "" {
		if !uuid.IsValid(v) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid contractor_id")
		}
		filter.ContractorID = &v
	}

	if v := c.Query("is_done"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_done")
		}
		filter.IsDone = &b
	}

	if v := c.Query("is_paid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_paid")
		}
		filter.IsPaid = &b
	}

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	return filter, nil
}

// GetEventByID handles the retrieval of a specific event
// @Summary     Get event by ID
// @Description Get a specific event by ID with its artist and contractor
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     200 {object} EventResponse "Event details"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /events/{id} [get]
func (h *EventHandler) GetEventByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetEventByID(userID, eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEventRequest represents the request payload for updating an event.
// ArtistID and ContractorID accept an empty string to clear the link; omit
// them to leave the link unchanged.
type UpdateEventRequest struct {
	Date          *string               `json:"date"`
	StartTime     *string               `json:"start_time" binding:"omitempty,clock_time"`
	ArtistID      *string               `json:"artist_id"`
	ContractorID  *string               `json:"contractor_id"`
	Value         *int64                `json:"value" binding:"omitempty,gte=0"`
	IsDone        *bool                 `json:"is_done"`
	IsPaid        *bool                 `json:"is_paid"`
	PaymentMethod *models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	PixKey        *string               `json:"pix_key" binding:"omitempty,max=140"`
	Observations  *string               `json:"observations" binding:"omitempty,max=2000"`
}

// UpdateEvent handles updating an existing event
// @Summary     Update event
// @Description Update an existing event. The value of an already-transferred event cannot be changed.
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Event ID"
// @Param       request body UpdateEventRequest true "Fields to update"
// @Success     200 {object} EventResponse "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input or transferred event value change"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updateFields := services.EventUpdateFields{
		StartTime:     req.StartTime,
		Value:         req.Value,
		IsDone:        req.IsDone,
		IsPaid:        req.IsPaid,
		PaymentMethod: req.PaymentMethod,
		PixKey:        req.PixKey,
		Observations:  req.Observations,
	}

	if updateFields.ArtistID, err = resolveLink(req.ArtistID, "artist_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if updateFields.ContractorID, err = resolveLink(req.ContractorID, "contractor_id"); err != nil {
		respondWithError(c, err)
		return
	}

	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		updateFields.Date = &parsed
	}

	event, err := h.eventService.UpdateEvent(userID, eventID, updateFields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EVENT", "event", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent handles the deletion of an event
// @Summary     Delete event
// @Description Delete an event by ID. Transactions created by a previous transfer are preserved.
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     200 {object} MessageResponse "Event deleted"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.eventService.DeleteEvent(userID, eventID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EVENT", "event", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// TransferEventRequest represents the request payload for transferring an event's value
type TransferEventRequest struct {
	BankAccountID string `json:"bank_account_id" binding:"required,uuid"`
}

// TransferEvent handles transferring an event's value into a bank account
// @Summary     Transfer event value
// @Description Credit the event's value to a bank account, marking the event transferred and creating a linked income transaction atomically. Fails if the event was already transferred.
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Event ID"
// @Param       request body TransferEventRequest true "Target account"
// @Success     200 {object} EventResponse "Transferred event and created transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or non-positive event value"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event or account not found"
// @Failure     409 {object} ErrorResponse "Event already transferred"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /events/{id}/transfer [post]
func (h *EventHandler) TransferEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransferEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, transaction, err := h.eventService.TransferEventValue(userID, eventID, req.BankAccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "TRANSFER_EVENT", "event", eventID, c.ClientIP(),
		map[string]interface{}{
			"bank_account_id": req.BankAccountID,
			"value":           event.Value,
			"transaction_id":  transaction.ID,
		})

	c.JSON(http.StatusOK, gin.H{"event": event, "transaction": transaction})
}

// EventInsightRequest represents the optional request payload for an insight
type EventInsightRequest struct {
	HistoricalFeedback string `json:"historical_feedback" binding:"max=4000"`
}

// GetEventInsight generates an AI suggestion for an event
// @Summary     Get event insight
// @Description Generate a short AI suggestion for running the event, based on its date, time, artist, contractor, and value
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true  "Event ID"
// @Param       request body EventInsightRequest false "Optional historical feedback to ground the suggestion"
// @Success     200 {object} MessageResponse "Generated insight"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     502 {object} ErrorResponse "Insight provider unavailable"
// @Router      /events/{id}/insight [post]
func (h *EventHandler) GetEventInsight(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EventInsightRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	event, err := h.eventService.GetEventByID(userID, eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	input := services.EventInsightInput{
		Date:               event.Date.Format("2006-01-02"),
		StartTime:          event.StartTime,
		Value:              event.Value,
		HistoricalFeedback: req.HistoricalFeedback,
	}
	if event.Artist != nil {
		input.Artist = event.Artist.Name
	}
	if event.Contractor != nil {
		input.Contractor = event.Contractor.Name
	}

	insight, err := h.insightService.GenerateEventInsight(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insight": insight})
}
