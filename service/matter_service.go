package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	model "github.com/turman-legal/tls-ediscovery/models"

	"gorm.io/gorm"
)

// CreateMatter validates and inserts a new matter with its numbering cursor
// at 1. Validation runs before any row is written.
func (s *DocumentService) CreateMatter(name, prefix, description string) (*model.Matter, error) {
	if name == "" {
		return nil, newValidationError("matter name is required")
	}
	if !model.ValidBatesPrefix(prefix) {
		return nil, newValidationError("bates prefix %q must be 2-6 uppercase letters", prefix)
	}

	var count int64
	if err := s.db.Model(&model.Matter{}).
		Where("name = ? OR bates_prefix = ?", name, prefix).
		Count(&count).Error; err != nil {
		log.Printf("[CreateMatter] duplicate check failed: %v", err)
		return nil, fmt.Errorf("failed to check existing matters: %w", err)
	}
	if count > 0 {
		return nil, newConflictError("a matter with name %q or prefix %q already exists", name, prefix)
	}

	matter := model.Matter{
		Name:            name,
		BatesPrefix:     prefix,
		NextBatesNumber: 1,
		Description:     description,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.db.Create(&matter).Error; err != nil {
		// Racing creates land here through the unique indexes.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newConflictError("a matter with name %q or prefix %q already exists", name, prefix)
		}
		log.Printf("[CreateMatter] insert failed: %v", err)
		return nil, fmt.Errorf("failed to create matter: %w", err)
	}
	log.Printf("[CreateMatter] created matter %s (%s)", matter.Name, matter.BatesPrefix)
	return &matter, nil
}

// GetAllMatters lists matters, newest first.
func (s *DocumentService) GetAllMatters() ([]model.Matter, error) {
	var matters []model.Matter
	if err := s.db.Order("created_at DESC").Find(&matters).Error; err != nil {
		log.Printf("[GetAllMatters] query error: %v", err)
		return nil, fmt.Errorf("failed to fetch matters: %w", err)
	}
	return matters, nil
}

// GetMatter fetches one matter by id.
func (s *DocumentService) GetMatter(matterID string) (*model.Matter, error) {
	var matter model.Matter
	if err := s.db.First(&matter, "id = ?", matterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("matter %s not found", matterID)
		}
		return nil, fmt.Errorf("failed to fetch matter: %w", err)
	}
	return &matter, nil
}

// AllocateBatesRange reserves pageCount sequential numbers on the matter's
// cursor and returns the inclusive [start, end] span.
//
// The advance is a single conditional UPDATE ... RETURNING so two concurrent
// uploads to the same matter can never read the same starting value; the
// database serializes the increments and each caller sees its own slice of
// the sequence.
func (s *DocumentService) AllocateBatesRange(matterID string, pageCount int) (int64, int64, error) {
	if pageCount < 1 {
		return 0, 0, newValidationError("page count must be at least 1, got %d", pageCount)
	}

	var newCursor int64
	res := s.db.Raw(
		`UPDATE matters SET next_bates_number = next_bates_number + ?, updated_at = ? WHERE id = ? RETURNING next_bates_number`,
		pageCount, time.Now(), matterID,
	).Scan(&newCursor)
	if res.Error != nil {
		log.Printf("[AllocateBatesRange] cursor update failed for matter %s: %v", matterID, res.Error)
		return 0, 0, fmt.Errorf("failed to allocate bates range: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, 0, newNotFoundError("matter %s not found", matterID)
	}

	start := newCursor - int64(pageCount)
	end := newCursor - 1
	log.Printf("[AllocateBatesRange] matter %s reserved %d..%d", matterID, start, end)
	return start, end, nil
}
