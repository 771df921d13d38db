package postgres

import (
	"encoding/json"
	"time"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/repository"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

func marshalMetadata(data map[string]interface{}) []byte {
	if len(data) == 0 {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return b
}

func marshalLevels(levels []domain.IntensityLevel) ([]byte, error) {
	if levels == nil {
		levels = []domain.IntensityLevel{}
	}
	return json.Marshal(levels)
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > repository.MaxPageSize {
		return repository.MaxPageSize
	}
	return limit
}
