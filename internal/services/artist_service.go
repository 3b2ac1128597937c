package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "palco/internal/errors"
	"palco/internal/models"
	"palco/internal/pagination"
)

// artistService handles artist business logic.
type artistService struct {
	db *gorm.DB
}

// NewArtistService creates a new ArtistServicer.
func NewArtistService(db *gorm.DB) ArtistServicer {
	return &artistService{db: db}
}

// CreateArtist creates a new artist
func (s *artistService) CreateArtist(userID, name, email, contact string) (*models.Artist, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "artist name is required")
	}

	artist := &models.Artist{
		UserID:  userID,
		Name:    name,
		Email:   email,
		Contact: contact,
	}

	if err := s.db.Create(artist).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return artist, nil
}

// GetUserArtists retrieves a paginated list of artists for a user.
func (s *artistService) GetUserArtists(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Artist], error) {
	page.Defaults()

	base := s.db.Model(&models.Artist{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var artists []models.Artist
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&artists).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(artists, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetArtistByID retrieves an artist by ID for a specific user
func (s *artistService) GetArtistByID(userID, artistID string) (*models.Artist, error) {
	var artist models.Artist
	if err := s.db.Where("id = ? AND user_id = ?", artistID, userID).First(&artist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArtistNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &artist, nil
}

// UpdateArtist updates an existing artist
func (s *artistService) UpdateArtist(userID, artistID, name, email, contact string) (*models.Artist, error) {
	artist, err := s.GetArtistByID(userID, artistID)
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
		if err := s.db.Model(artist).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return artist, nil
}

// DeleteArtist soft-deletes an artist. Events keep their artist reference
// for historical records.
func (s *artistService) DeleteArtist(userID, artistID string) error {
	artist, err := s.GetArtistByID(userID, artistID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(artist).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
