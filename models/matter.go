package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// batesPrefixPattern is the only accepted shape for a matter's Bates prefix.
var batesPrefixPattern = regexp.MustCompile(`^[A-Z]{2,6}$`)

// Matter is a legal case/engagement. It owns the Bates numbering cursor for
// every document produced under it.
type Matter struct {
	// ID is a unique identifier for the matter, stored as a UUID.
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	// Name is the display name, unique across matters.
	Name string `gorm:"not null;uniqueIndex" json:"name"`

	// BatesPrefix is 2-6 uppercase letters, unique across matters.
	BatesPrefix string `gorm:"not null;uniqueIndex" json:"bates_prefix"`

	// NextBatesNumber is the numbering cursor. It only ever increases, and it
	// is advanced exclusively through AllocateBatesRange's single-statement
	// conditional update so concurrent uploads can never observe the same
	// starting value twice.
	NextBatesNumber int64 `gorm:"not null;default:1" json:"next_bates_number"`

	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *Matter) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ValidBatesPrefix reports whether prefix matches ^[A-Z]{2,6}$.
func ValidBatesPrefix(prefix string) bool {
	return batesPrefixPattern.MatchString(prefix)
}

// FormatBates renders a Bates number as {prefix}-{number zero-padded to 6
// digits}, e.g. prefix "VQ" and number 12 become "VQ-000012".
func FormatBates(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// batesNumberPattern matches a formatted Bates number and captures the prefix
// and the sequence digits.
var batesNumberPattern = regexp.MustCompile(`^([A-Z]{2,6})-(\d{6,})$`)

// ParseBates splits a formatted Bates number back into prefix and sequence.
func ParseBates(bates string) (string, int64, error) {
	m := batesNumberPattern.FindStringSubmatch(bates)
	if m == nil {
		return "", 0, fmt.Errorf("invalid bates number %q", bates)
	}
	var n int64
	if _, err := fmt.Sscanf(m[2], "%d", &n); err != nil {
		return "", 0, fmt.Errorf("invalid bates sequence in %q: %w", bates, err)
	}
	return m[1], n, nil
}
