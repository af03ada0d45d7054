package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the storefront schema. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&persistedStateRecord{},
	)
}

// Persisted state schema mirrors the persist postgres adapter.
type persistedStateRecord struct {
	Key       string         `gorm:"primaryKey;column:key;size:256"`
	Slice     string         `gorm:"column:slice;type:varchar(64);index:idx_persisted_state_slice_owner"`
	Owner     string         `gorm:"column:owner;type:varchar(128);index:idx_persisted_state_slice_owner"`
	Payload   []byte         `gorm:"column:payload;type:jsonb"`
	Fields    pq.StringArray `gorm:"column:fields;type:text[]"`
	UpdatedAt time.Time      `gorm:"column:updated_at;index"`
}

func (persistedStateRecord) TableName() string { return "persisted_state" }
