package model

import (
	"encoding/json"
	"time"

	"github.com/nulzo/formatapi/pkg/schema"
)

// HistoryRow is the persisted form of a history record. List columns hold
// JSON arrays.
type HistoryRow struct {
	Seq          int64     `db:"seq"`
	ID           string    `db:"id"`
	Vendor       string    `db:"vendor"`
	BaseURL      string    `db:"base_url"`
	APIKey       string    `db:"api_key"`
	Models       string    `db:"models"`
	Capabilities string    `db:"capabilities"`
	CreatedAt    time.Time `db:"created_at"`
}

// NewHistoryRow converts a record for storage.
func NewHistoryRow(rec *schema.HistoryRecord) (*HistoryRow, error) {
	models, err := encodeList(rec.Models)
	if err != nil {
		return nil, err
	}
	caps, err := encodeList(rec.Capabilities)
	if err != nil {
		return nil, err
	}
	return &HistoryRow{
		ID:           rec.ID,
		Vendor:       rec.Vendor,
		BaseURL:      rec.BaseURL,
		APIKey:       rec.APIKey,
		Models:       models,
		Capabilities: caps,
		CreatedAt:    rec.CreatedAt.UTC(),
	}, nil
}

// Record converts the row back. Malformed list columns decode as empty.
func (r HistoryRow) Record() schema.HistoryRecord {
	return schema.HistoryRecord{
		ID:           r.ID,
		Vendor:       r.Vendor,
		BaseURL:      r.BaseURL,
		APIKey:       r.APIKey,
		Models:       decodeList(r.Models),
		Capabilities: decodeList(r.Capabilities),
		CreatedAt:    r.CreatedAt,
	}
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}
