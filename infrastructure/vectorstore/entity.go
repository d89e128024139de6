package vectorstore

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/reelrec/reelrec/domain/recommend"
)

// Float64Slice serializes []float64 as JSON so the same schema works on
// SQLite and PostgreSQL.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// StringMap serializes map[string]string as JSON.
type StringMap map[string]string

// Scan implements sql.Scanner.
func (m *StringMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringMap", value)
	}

	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer.
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// GameEmbeddingEntity is the persisted form of a processed game.
type GameEmbeddingEntity struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	GameID    string       `gorm:"column:game_id;uniqueIndex;not null"`
	Overview  string       `gorm:"column:overview;not null"`
	Embedding Float64Slice `gorm:"column:embedding;type:json;not null"`
	Metadata  StringMap    `gorm:"column:metadata;type:json"`
}

// TableName sets the table name for GORM.
func (GameEmbeddingEntity) TableName() string {
	return "reelrec_game_embeddings"
}

// newGameEmbeddingEntity creates an entity from a processed game.
func newGameEmbeddingEntity(p recommend.ProcessedGame) GameEmbeddingEntity {
	return GameEmbeddingEntity{
		GameID:    p.ID(),
		Overview:  p.Overview(),
		Embedding: Float64Slice(p.Embedding()),
		Metadata:  StringMap(p.Metadata()),
	}
}
