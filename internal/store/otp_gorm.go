package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/accounts/internal/models"
)

// GormOTPStore implements OTPStore against a relational database.
type GormOTPStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormOTPStore constructs a GormOTPStore with the given expiry window.
func NewGormOTPStore(db *gorm.DB, ttl time.Duration) *GormOTPStore {
	return &GormOTPStore{db: db, ttl: ttl, now: time.Now}
}

// Issue generates a fresh 6-digit code for the user and kind. An upsert on
// the (user_id, kind) unique index replaces any live code in one statement,
// so a racing Verify observes either the old code or the new one.
func (s *GormOTPStore) Issue(userID uuid.UUID, kind models.CodeKind) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	record := models.OneTimeCode{
		UserID:   userID,
		Kind:     kind,
		Code:     code,
		IssuedAt: s.now(),
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "issued_at", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return "", err
	}

	return code, nil
}

// Verify checks the supplied code against the live one. A match consumes
// the code; a code found past its window is deleted and reported as
// expired so the caller can request a reissue. The expiry boundary is
// exclusive (see Expired).
func (s *GormOTPStore) Verify(userID uuid.UUID, kind models.CodeKind, code string) (Outcome, error) {
	var record models.OneTimeCode
	err := s.db.Where("user_id = ? AND kind = ?", userID, kind).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OutcomeInvalid, nil
		}
		return OutcomeInvalid, err
	}

	if Expired(record.IssuedAt, s.now(), s.ttl) {
		if err := s.db.Delete(&record).Error; err != nil {
			return OutcomeInvalid, err
		}
		return OutcomeExpired, nil
	}

	if record.Code != code {
		return OutcomeInvalid, nil
	}

	// Deleting by primary key and stored code makes the consume atomic: if
	// a reissue raced this check, the delete matches nothing and the new
	// code stays live.
	result := s.db.Where("id = ? AND code = ?", record.ID, record.Code).Delete(&models.OneTimeCode{})
	if result.Error != nil {
		return OutcomeInvalid, result.Error
	}
	if result.RowsAffected == 0 {
		return OutcomeInvalid, nil
	}

	return OutcomeValid, nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
