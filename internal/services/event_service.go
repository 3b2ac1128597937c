package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
)

// eventService handles event business logic.
type eventService struct {
	db             *gorm.DB
	accountService BankAccountServicer
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB, accountService BankAccountServicer) EventServicer {
	return &eventService{
		db:             db,
		accountService: accountService,
	}
}

// CreateEvent creates a new event for a user.
func (s *eventService) CreateEvent(userID string, fields EventFields) (*models.Event, error) {
	if fields.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event date is required")
	}
	if fields.Value < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event value cannot be negative")
	}

	if fields.ArtistID != nil {
		if err := s.checkOwned(&models.Artist{}, userID, *fields.ArtistID, apperrors.ErrArtistNotFound); err != nil {
			return nil, err
		}
	}
	if fields.ContractorID != nil {
		if err := s.checkOwned(&models.Contractor{}, userID, *fields.ContractorID, apperrors.ErrContractorNotFound); err != nil {
			return nil, err
		}
	}

	event := &models.Event{
		UserID:        userID,
		Date:          fields.Date,
		StartTime:     fields.StartTime,
		ArtistID:      fields.ArtistID,
		ContractorID:  fields.ContractorID,
		Value:         fields.Value,
		PaymentMethod: fields.PaymentMethod,
		PixKey:        fields.PixKey,
		Observations:  fields.Observations,
	}

	if err := s.db.Create(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return event, nil
}

// checkOwned verifies that a referenced record exists and belongs to the user.
func (s *eventService) checkOwned(model interface{}, userID, id string, notFound *apperrors.AppError) error {
	var count int64
	if err := s.db.Model(model).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return notFound
	}
	return nil
}

// GetUserEvents retrieves a paginated, filtered list of events for a user.
func (s *eventService) GetUserEvents(userID string, page pagination.PageRequest, filter EventFilter) (*pagination.PageResponse[models.Event], error) {
	page.Defaults()

	base := s.db.Model(&models.Event{}).Where("user_id = ?", userID)
	base = applyEventFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var events []models.Event
	if err := base.Preload("Artist").Preload("Contractor").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(events, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// applyEventFilters applies exact-match filters and the day-normalized date
// window: a FromDate with no ToDate matches that exact day only.
func applyEventFilters(q *gorm.DB, f EventFilter) *gorm.DB {
	if f.ArtistID != nil {
		q = q.Where("artist_id = ?", *f.ArtistID)
	}
	if f.ContractorID != nil {
		q = q.Where("contractor_id = ?", *f.ContractorID)
	}
	if f.IsDone != nil {
		q = q.Where("is_done = ?", *f.IsDone)
	}
	if f.IsPaid != nil {
		q = q.Where("is_paid = ?", *f.IsPaid)
	}

	if f.FromDate != nil {
		start := dayStart(*f.FromDate)
		end := start.AddDate(0, 0, 1)
		if f.ToDate != nil {
			end = dayStart(*f.ToDate).AddDate(0, 0, 1)
		}
		q = q.Where("date >= ? AND date < ?", start, end)
	} else if f.ToDate != nil {
		q = q.Where("date < ?", dayStart(*f.ToDate).AddDate(0, 0, 1))
	}
	return q
}

// GetEventByID retrieves an event by ID for a specific user
func (s *eventService) GetEventByID(userID, eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.db.Preload("Artist").Preload("Contractor").
		Where("id = ? AND user_id = ?", eventID, userID).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// UpdateEvent updates an existing event. Transfer state cannot be changed
// through this path; use TransferEventValue.
func (s *eventService) UpdateEvent(userID, eventID string, fields EventUpdateFields) (*models.Event, error) {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}

	if fields.Value != nil && *fields.Value < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event value cannot be negative")
	}
	if fields.Value != nil && event.IsTransferred {
		return nil, apperrors.WithMessage(apperrors.ErrEventAlreadyTransferred, "cannot change the value of a transferred event")
	}

	updates := make(map[string]interface{})
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}
	if fields.StartTime != nil {
		updates["start_time"] = *fields.StartTime
	}
	if fields.Value != nil {
		updates["value"] = *fields.Value
	}
	if fields.IsDone != nil {
		updates["is_done"] = *fields.IsDone
	}
	if fields.IsPaid != nil {
		updates["is_paid"] = *fields.IsPaid
	}
	if fields.PaymentMethod != nil {
		updates["payment_method"] = *fields.PaymentMethod
	}
	if fields.PixKey != nil {
		updates["pix_key"] = *fields.PixKey
	}
	if fields.Observations != nil {
		updates["observations"] = *fields.Observations
	}

	if fields.ArtistID != nil {
		if *fields.ArtistID != nil {
			if err := s.checkOwned(&models.Artist{}, userID, **fields.ArtistID, apperrors.ErrArtistNotFound); err != nil {
				return nil, err
			}
		}
		updates["artist_id"] = *fields.ArtistID
	}
	if fields.ContractorID != nil {
		if *fields.ContractorID != nil {
			if err := s.checkOwned(&models.Contractor{}, userID, **fields.ContractorID, apperrors.ErrContractorNotFound); err != nil {
				return nil, err
			}
		}
		updates["contractor_id"] = *fields.ContractorID
	}

	if len(updates) > 0 {
		if err := s.db.Model(event).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.GetEventByID(userID, eventID)
	}

	return event, nil
}

// DeleteEvent soft-deletes an event. The income transaction created by a
// past transfer is a settled bank movement and is kept.
func (s *eventService) DeleteEvent(userID, eventID string) error {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(event).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TransferEventValue credits the event's value to a bank account: the event
// is marked transferred, the balance is adjusted, and the linked income
// transaction is created, all in one database transaction. The transaction
// carries the event's ID as its source so the link never depends on
// description matching.
func (s *eventService) TransferEventValue(userID, eventID, accountID string) (*models.Event, *models.Transaction, error) {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, nil, err
	}

	if event.IsTransferred {
		return nil, nil, apperrors.ErrEventAlreadyTransferred
	}
	if event.Value <= 0 {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event has no value to transfer")
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	description := fmt.Sprintf("Event on %s", event.Date.Format("2006-01-02"))
	if event.Artist != nil {
		description = fmt.Sprintf("Event %s on %s", event.Artist.Name, event.Date.Format("2006-01-02"))
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Description:   description,
		Amount:        event.Value,
		Date:          now,
		Type:          models.TransactionTypeIncome,
		BankAccountID: &account.ID,
		IsTransferred: true,
		TransferDate:  &now,
		PaymentMethod: event.PaymentMethod,
		PixKey:        event.PixKey,
		ContractorID:  event.ContractorID,
		SourceEventID: &event.ID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(event).Updates(map[string]interface{}{
			"is_transferred":                 true,
			"transferred_to_bank_account_id": account.ID,
			"transfer_date":                  now,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.accountService.ApplyBalanceDelta(tx, userID, account.ID, event.Value)
	})
	if err != nil {
		return nil, nil, err
	}

	event.IsTransferred = true
	event.TransferredToBankAccountID = &account.ID
	event.TransferDate = &now

	return event, transaction, nil
}
