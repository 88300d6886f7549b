package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.ChatSessionID)
}

// OwnedBy scopes a query to sessions belonging to one caller. Ownership
// failures surface as record-not-found, same as a nonexistent id.
type OwnedBy struct {
	Owner string
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner = ?", s.Owner)
}

// ChronologicalOrder sorts messages by created_at ascending with the
// monotonic id as tiebreaker, so ordering stays total under coarse
// timestamp resolution.
type ChronologicalOrder struct{}

func (s ChronologicalOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}
