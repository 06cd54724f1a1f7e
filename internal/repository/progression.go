package repository

import (
	"context"
	"errors"

	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressionRepository persists progression records, badges, and XP
// events. Mutations run under a row lock so two concurrent awards for
// the same user cannot lose an update.
type ProgressionRepository struct {
	db *pgxpool.Pool
}

func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// WithRecord loads the user's progression row FOR UPDATE (inserting a
// zeroed row on first touch), runs fn, then writes the mutated record,
// any new badges, and the returned XP event in the same transaction.
func (r *ProgressionRepository) WithRecord(ctx context.Context, userID uuid.UUID, fn func(rec *models.ProgressionRecord) (*models.XPEvent, error)) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rec, err := lockRecord(ctx, tx, userID)
	if err != nil {
		return err
	}

	// Remember badges already persisted so only new ones get inserted
	existing := make(map[string]bool, len(rec.Badges))
	for _, b := range rec.Badges {
		existing[b.Name] = true
	}

	event, err := fn(rec)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE progression
		SET total_xp = $1,
			level = $2,
			streak_days = $3,
			last_activity_date = $4,
			updated_at = NOW()
		WHERE user_id = $5
	`, rec.TotalXP, rec.Level, rec.StreakDays, rec.LastActivityDate, userID)
	if err != nil {
		return err
	}

	for _, b := range rec.Badges {
		if existing[b.Name] {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO user_badges (user_id, name, icon, earned_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, name) DO NOTHING
		`, userID, b.Name, b.Icon, b.EarnedAt)
		if err != nil {
			return err
		}
	}

	if event != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO xp_events (id, user_id, category, points, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, event.ID, event.UserID, event.Category, event.Points, event.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Get returns the user's progression record with badges, or a zeroed
// record if the user has never earned anything yet.
func (r *ProgressionRepository) Get(ctx context.Context, userID uuid.UUID) (*models.ProgressionRecord, error) {
	rec := &models.ProgressionRecord{UserID: userID, Level: 1, Badges: []models.Badge{}}

	err := r.db.QueryRow(ctx, `
		SELECT total_xp, level, streak_days, last_activity_date, created_at, updated_at
		FROM progression
		WHERE user_id = $1
	`, userID).Scan(
		&rec.TotalXP,
		&rec.Level,
		&rec.StreakDays,
		&rec.LastActivityDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, nil
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT name, icon, earned_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY earned_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.Name, &b.Icon, &b.EarnedAt); err != nil {
			return nil, err
		}
		rec.Badges = append(rec.Badges, b)
	}

	return rec, rows.Err()
}

// lockRecord selects the progression row FOR UPDATE, inserting a zeroed
// row first if the user has none yet
func lockRecord(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.ProgressionRecord, error) {
	rec := &models.ProgressionRecord{UserID: userID, Badges: []models.Badge{}}

	scan := func() error {
		return tx.QueryRow(ctx, `
			SELECT total_xp, level, streak_days, last_activity_date, created_at, updated_at
			FROM progression
			WHERE user_id = $1
			FOR UPDATE
		`, userID).Scan(
			&rec.TotalXP,
			&rec.Level,
			&rec.StreakDays,
			&rec.LastActivityDate,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
	}

	err := scan()
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx, `
			INSERT INTO progression (user_id, total_xp, level, streak_days, created_at, updated_at)
			VALUES ($1, 0, 1, 0, NOW(), NOW())
			ON CONFLICT (user_id) DO NOTHING
		`, userID)
		if err != nil {
			return nil, err
		}
		err = scan()
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT name, icon, earned_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY earned_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.Name, &b.Icon, &b.EarnedAt); err != nil {
			return nil, err
		}
		rec.Badges = append(rec.Badges, b)
	}

	return rec, rows.Err()
}
