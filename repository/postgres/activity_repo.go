package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

const activityColumns = `id, task_id, user_id, date, count, metadata, created_at, updated_at`

func (r *activityRepository) Increment(ctx context.Context, entry *domain.ActivityEntry) (*domain.ActivityEntry, error) {
	if entry == nil || entry.TaskID == "" || entry.Date == "" {
		return nil, domain.ErrInvalidPayload
	}

	// $5 is referenced directly in the update branch so negative increments
	// subtract from the stored count before clamping.
	const query = `
	INSERT INTO activities (id, task_id, user_id, date, count, metadata, created_at, updated_at)
	VALUES ($1, $2, $3, $4::date, GREATEST($5, 0), $6, NOW(), NOW())
	ON CONFLICT (task_id, date) DO UPDATE
	SET count = GREATEST(activities.count + $5, 0),
		metadata = COALESCE(EXCLUDED.metadata, activities.metadata),
		updated_at = NOW()
	RETURNING ` + activityColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		entry.TaskID,
		entry.UserID,
		entry.Date,
		entry.Count,
		marshalMetadata(entry.Metadata),
	)
	return scanActivity(row)
}

func (r *activityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityEntry, error) {
	const query = `
	SELECT ` + activityColumns + `
	FROM activities
	WHERE ($1 = '' OR task_id = $1)
	  AND ($2 = '' OR user_id = $2)
	  AND ($3::date IS NULL OR date >= $3::date)
	  AND ($4::date IS NULL OR date <= $4::date)
	ORDER BY task_id, date ASC
	`
	rows, err := r.pool.Query(ctx, query,
		filter.TaskID,
		filter.UserID,
		nullString(filter.From),
		nullString(filter.To),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ActivityEntry
	for rows.Next() {
		entry, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanActivity(row scanner) (*domain.ActivityEntry, error) {
	var entry domain.ActivityEntry
	var (
		date     time.Time
		metadata []byte
	)

	if err := row.Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.UserID,
		&date,
		&entry.Count,
		&metadata,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}

	entry.Date = formatDate(date)
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &entry.Metadata)
	}

	return &entry, nil
}
