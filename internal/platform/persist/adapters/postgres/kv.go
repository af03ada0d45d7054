package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
)

// DefaultStaleAfter is how long untouched owner state is kept.
const DefaultStaleAfter = 30 * 24 * time.Hour

// KV persists owner state in the persisted_state table. Caller owns DB lifecycle.
type KV struct {
	db *gorm.DB
}

func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

type stateRecord struct {
	Key       string         `gorm:"primaryKey;column:key;size:256"`
	Slice     string         `gorm:"column:slice;type:varchar(64);index:idx_persisted_state_slice_owner"`
	Owner     string         `gorm:"column:owner;type:varchar(128);index:idx_persisted_state_slice_owner"`
	Payload   []byte         `gorm:"column:payload;type:jsonb"`
	Fields    pq.StringArray `gorm:"column:fields;type:text[]"`
	UpdatedAt time.Time      `gorm:"column:updated_at;index"`
}

func (stateRecord) TableName() string { return "persisted_state" }

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := k.ensureDB(); err != nil {
		return nil, false, err
	}
	var rec stateRecord
	err := k.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Payload, true, nil
}

// Set upserts the document and indexes its top-level field names.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := k.ensureDB(); err != nil {
		return err
	}
	slice, owner, _ := persist.SplitKey(key)
	rec := stateRecord{
		Key:     key,
		Slice:   slice,
		Owner:   owner,
		Payload: value,
		Fields:  topLevelFields(value),
	}
	return k.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "fields", "updated_at"}),
		}).
		Create(&rec).Error
}

func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.ensureDB(); err != nil {
		return err
	}
	return k.db.WithContext(ctx).Delete(&stateRecord{}, "key = ?", key).Error
}

func (k *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := k.ensureDB(); err != nil {
		return nil, err
	}
	var keys []string
	err := k.db.WithContext(ctx).
		Model(&stateRecord{}).
		Where("key LIKE ?", escapeLike(prefix)+"%").
		Order("key").
		Pluck("key", &keys).Error
	return keys, err
}

// PurgeStale removes state untouched for olderThan. Use for housekeeping or cron.
func (k *KV) PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if err := k.ensureDB(); err != nil {
		return 0, err
	}
	if olderThan <= 0 {
		olderThan = DefaultStaleAfter
	}
	cutoff := time.Now().Add(-olderThan)
	res := k.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&stateRecord{})
	return res.RowsAffected, res.Error
}

func (k *KV) ensureDB() error {
	if k == nil || k.db == nil {
		return persist.ErrNotConfigured
	}
	return nil
}

func topLevelFields(payload []byte) pq.StringArray {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return pq.StringArray{}
	}
	fields := make([]string, 0, len(doc))
	for name := range doc {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return pq.StringArray(fields)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ persist.KV = (*KV)(nil)
