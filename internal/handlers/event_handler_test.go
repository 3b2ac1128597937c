package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
	"palco/internal/services"
)

// --- mock event service ---

type mockEventService struct {
	createEventFn        func(userID string, fields services.EventFields) (*models.Event, error)
	getUserEventsFn      func(userID string, page pagination.PageRequest, filter services.EventFilter) (*pagination.PageResponse[models.Event], error)
	getEventByIDFn       func(userID, eventID string) (*models.Event, error)
	updateEventFn        func(userID, eventID string, fields services.EventUpdateFields) (*models.Event, error)
	deleteEventFn        func(userID, eventID string) error
	transferEventValueFn func(userID, eventID, accountID string) (*models.Event, *models.Transaction, error)
}

func (m *mockEventService) CreateEvent(userID string, fields services.EventFields) (*models.Event, error) {
	if m.createEventFn != nil {
		return m.createEventFn(userID, fields)
	}
	return &models.Event{}, nil
}

func (m *mockEventService) GetUserEvents(userID string, page pagination.PageRequest, filter services.EventFilter) (*pagination.PageResponse[models.Event], error) {
	if m.getUserEventsFn != nil {
		return m.getUserEventsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Event{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockEventService) GetEventByID(userID, eventID string) (*models.Event, error) {
	if m.getEventByIDFn != nil {
		return m.getEventByIDFn(userID, eventID)
	}
	return &models.Event{}, nil
}

func (m *mockEventService) UpdateEvent(userID, eventID string, fields services.EventUpdateFields) (*models.Event, error) {
	if m.updateEventFn != nil {
		return m.updateEventFn(userID, eventID, fields)
	}
	return &models.Event{}, nil
}

func (m *mockEventService) DeleteEvent(userID, eventID string) error {
	if m.deleteEventFn != nil {
		return m.deleteEventFn(userID, eventID)
	}
	return nil
}

func (m *mockEventService) TransferEventValue(userID, eventID, accountID string) (*models.Event, *models.Transaction, error) {
	if m.transferEventValueFn != nil {
		return m.transferEventValueFn(userID, eventID, accountID)
	}
	return &models.Event{}, &models.Transaction{}, nil
}

var _ services.EventServicer = (*mockEventService)(nil)

// --- mock insight service ---

type mockInsightService struct {
	generateFn func(ctx context.Context, input services.EventInsightInput) (string, error)
}

func (m *mockInsightService) GenerateEventInsight(ctx context.Context, input services.EventInsightInput) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, input)
	}
	return "Sounds like a great night.", nil
}

var _ services.InsightServicer = (*mockInsightService)(nil)

const testEventID = "0198c5b6-0000-7000-8000-0000000000ee"

func setupEventRouter(handler *EventHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/events", handler.CreateEvent)
	auth.GET("/events", handler.GetUserEvents)
	auth.GET("/events/:id", handler.GetEventByID)
	auth.PUT("/events/:id", handler.UpdateEvent)
	auth.DELETE("/events/:id", handler.DeleteEvent)
	auth.POST("/events/:id/transfer", handler.TransferEvent)
	auth.POST("/events/:id/insight", handler.GetEventInsight)
	return r
}

func newEventHandler(eventSvc services.EventServicer, insightSvc services.InsightServicer) *EventHandler {
	if insightSvc == nil {
		insightSvc = &mockInsightService{}
	}
	return NewEventHandler(eventSvc, insightSvc, &mockAuditService{})
}

func TestEventHandler_CreateEvent(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		eventSvc := &mockEventService{
			createEventFn: func(_ string, fields services.EventFields) (*models.Event, error) {
				return &models.Event{
					Base:      models.Base{ID: testEventID},
					Date:      fields.Date,
					StartTime: fields.StartTime,
					Value:     fields.Value,
				}, nil
			},
		}
		handler := newEventHandler(eventSvc, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events", `{"date":"2026-09-15","start_time":"21:00","value":250000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		event := result["event"].(map[string]interface{})
		if event["value"].(float64) != 250000 {
			t.Errorf("expected value 250000, got %v", event["value"])
		}
		if event["start_time"] != "21:00" {
			t.Errorf("expected start_time 21:00, got %v", event["start_time"])
		}
	})

	t.Run("returns 400 on missing date", func(t *testing.T) {
		handler := newEventHandler(&mockEventService{}, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events", `{"value":1000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed start time", func(t *testing.T) {
		handler := newEventHandler(&mockEventService{}, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events", `{"date":"2026-09-15","start_time":"9pm"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative value", func(t *testing.T) {
		handler := newEventHandler(&mockEventService{}, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events", `{"date":"2026-09-15","value":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestEventHandler_TransferEvent(t *testing.T) {
	const accountID = "0198c5b6-0000-7000-8000-0000000000aa"

	t.Run("returns 200 with event and transaction", func(t *testing.T) {
		eventSvc := &mockEventService{
			transferEventValueFn: func(_, eventID, accID string) (*models.Event, *models.Transaction, error) {
				return &models.Event{
						Base:                       models.Base{ID: eventID},
						Value:                      250000,
						IsTransferred:              true,
						TransferredToBankAccountID: &accID,
					}, &models.Transaction{
						Amount:        250000,
						Type:          models.TransactionTypeIncome,
						SourceEventID: &eventID,
					}, nil
			},
		}
		handler := newEventHandler(eventSvc, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/transfer",
			`{"bank_account_id":"`+accountID+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		event := result["event"].(map[string]interface{})
		if !event["is_transferred"].(bool) {
			t.Error("expected event marked transferred")
		}
		tx := result["transaction"].(map[string]interface{})
		if tx["source_event_id"] != testEventID {
			t.Errorf("expected source event link, got %v", tx["source_event_id"])
		}
	})

	t.Run("returns 409 when already transferred", func(t *testing.T) {
		eventSvc := &mockEventService{
			transferEventValueFn: func(_, _, _ string) (*models.Event, *models.Transaction, error) {
				return nil, nil, apperrors.ErrEventAlreadyTransferred
			},
		}
		handler := newEventHandler(eventSvc, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/transfer",
			`{"bank_account_id":"`+accountID+`"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EVENT_ALREADY_TRANSFERRED")
	})

	t.Run("returns 400 on missing account", func(t *testing.T) {
		handler := newEventHandler(&mockEventService{}, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/transfer", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-uuid account", func(t *testing.T) {
		handler := newEventHandler(&mockEventService{}, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/transfer", `{"bank_account_id":"abc"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestEventHandler_GetEventInsight(t *testing.T) {
	t.Run("returns 200 with insight text", func(t *testing.T) {
		var gotInput services.EventInsightInput
		insightSvc := &mockInsightService{
			generateFn: func(_ context.Context, input services.EventInsightInput) (string, error) {
				gotInput = input
				return "Open with the acoustic set.", nil
			},
		}
		eventSvc := &mockEventService{
			getEventByIDFn: func(_, eventID string) (*models.Event, error) {
				return &models.Event{
					Base:      models.Base{ID: eventID},
					StartTime: "21:00",
					Value:     250000,
					Artist:    &models.Artist{Name: "Duo Acustico"},
				}, nil
			},
		}
		handler := newEventHandler(eventSvc, insightSvc)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/insight",
			`{"historical_feedback":"Last show at this venue ran long."}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["insight"] != "Open with the acoustic set." {
			t.Errorf("unexpected insight: %v", result["insight"])
		}
		if gotInput.Artist != "Duo Acustico" {
			t.Errorf("expected artist name forwarded, got %q", gotInput.Artist)
		}
		if gotInput.HistoricalFeedback == "" {
			t.Error("expected historical feedback forwarded")
		}
	})

	t.Run("empty body is allowed", func(t *testing.T) {
		handler := newEventHandler(&mockEventService{}, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/insight", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 on unknown event", func(t *testing.T) {
		eventSvc := &mockEventService{
			getEventByIDFn: func(_, _ string) (*models.Event, error) {
				return nil, apperrors.ErrEventNotFound
			},
		}
		handler := newEventHandler(eventSvc, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/insight", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when provider fails", func(t *testing.T) {
		insightSvc := &mockInsightService{
			generateFn: func(_ context.Context, _ services.EventInsightInput) (string, error) {
				return "", apperrors.ErrInsightUnavailable
			},
		}
		handler := newEventHandler(&mockEventService{}, insightSvc)
		r := setupEventRouter(handler)

		rec := doRequest(r, "POST", "/events/"+testEventID+"/insight", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSIGHT_UNAVAILABLE")
	})
}

func TestEventHandler_UpdateEvent(t *testing.T) {
	t.Run("returns 409 when value locked after transfer", func(t *testing.T) {
		eventSvc := &mockEventService{
			updateEventFn: func(_, _ string, _ services.EventUpdateFields) (*models.Event, error) {
				return nil, apperrors.ErrEventAlreadyTransferred
			},
		}
		handler := newEventHandler(eventSvc, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "PUT", "/events/"+testEventID, `{"value":999}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("clears artist link on empty string", func(t *testing.T) {
		var gotFields services.EventUpdateFields
		eventSvc := &mockEventService{
			updateEventFn: func(_, eventID string, fields services.EventUpdateFields) (*models.Event, error) {
				gotFields = fields
				return &models.Event{Base: models.Base{ID: eventID}}, nil
			},
		}
		handler := newEventHandler(eventSvc, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "PUT", "/events/"+testEventID, `{"artist_id":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFields.ArtistID == nil {
			t.Fatal("expected artist link change to be forwarded")
		}
		if *gotFields.ArtistID != nil {
			t.Error("expected artist link cleared, got a set value")
		}
	})

	t.Run("omitted links stay unchanged", func(t *testing.T) {
		var gotFields services.EventUpdateFields
		eventSvc := &mockEventService{
			updateEventFn: func(_, eventID string, fields services.EventUpdateFields) (*models.Event, error) {
				gotFields = fields
				return &models.Event{Base: models.Base{ID: eventID}}, nil
			},
		}
		handler := newEventHandler(eventSvc, nil)
		r := setupEventRouter(handler)

		rec := doRequest(r, "PUT", "/events/"+testEventID, `{"is_done":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFields.ArtistID != nil || gotFields.ContractorID != nil {
			t.Error("expected untouched links to stay nil")
		}
		if gotFields.IsDone == nil || !*gotFields.IsDone {
			t.Error("expected is_done update forwarded")
		}
	})
}
