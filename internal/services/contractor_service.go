package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
)

// contractorService handles contractor business logic.
type contractorService struct {
	db *gorm.DB
}

// NewContractorService creates a new ContractorServicer.
func NewContractorService(db *gorm.DB) ContractorServicer {
	return &contractorService{db: db}
}

// CreateContractor creates a new contractor
func (s *contractorService) CreateContractor(userID, name, email, contact string) (*models.Contractor, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contractor name is required")
	}

	contractor := &models.Contractor{
		UserID:  userID,
		Name:    name,
		Email:   email,
		Contact: contact,
	}

	if err := s.db.Create(contractor).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return contractor, nil
}

// GetUserContractors retrieves a paginated list of contractors for a user.
func (s *contractorService) GetUserContractors(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Contractor], error) {
	page.Defaults()

	base := s.db.Model(&models.Contractor{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var contractors []models.Contractor
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&contractors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(contractors, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetContractorByID retrieves a contractor by ID for a specific user
func (s *contractorService) GetContractorByID(userID, contractorID string) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := s.db.Where("id = ? AND user_id = ?", contractorID, userID).First(&contractor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContractorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &contractor, nil
}

// UpdateContractor updates an existing contractor
func (s *contractorService) UpdateContractor(userID, contractorID, name, email, contact string) (*models.Contractor, error) {
	contractor, err := s.GetContractorByID(userID, contractorID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if email != "" {
		updates["email"] = email
	}
	if contact != "" {
		updates["contact"] = contact
	}

	if len(updates) > 0 {
		if err := s.db.Model(contractor).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return contractor, nil
}

// DeleteContractor soft-deletes a contractor. Events and transactions keep
// their contractor reference for historical records.
func (s *contractorService) DeleteContractor(userID, contractorID string) error {
	contractor, err := s.GetContractorByID(userID, contractorID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(contractor).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
