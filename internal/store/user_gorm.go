package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/accounts/internal/models"
)

// GormUserStore implements UserStore against a relational database.
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore constructs a GormUserStore.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// Create inserts a new user. Duplicate emails surface as ErrEmailTaken via
// the unique index, so concurrent registrations for the same address cannot
// both commit.
func (s *GormUserStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// ByEmail looks up a user by their (already normalized) address.
func (s *GormUserStore) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ByID looks up a user by primary key.
func (s *GormUserStore) ByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update persists all fields of the user record.
func (s *GormUserStore) Update(user *models.User) error {
	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Delete removes the user and, through the FK constraint, any codes owned
// by them.
func (s *GormUserStore) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of users plus the unpaged total.
func (s *GormUserStore) List(q ListQuery) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(q.Limit).Offset(q.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// CountAdmins reports how many admin accounts exist.
func (s *GormUserStore) CountAdmins() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error
	return count, err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
