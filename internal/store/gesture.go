package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/gestura/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

const gestureColumns = `id, name, description, channel, directions, min_distance,
	max_duration_ms, angle_tolerance, action, enabled, is_builtin, usage_count,
	created_at_ms, last_used_ms`

// GestureRepository persists gesture definitions together with their usage counters.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Save inserts g, or overwrites the row with the same ID. An existing row
// keeps its position in List.
func (r *GestureRepository) Save(g gesture.Gesture) error {
	return saveGesture(r.db, g)
}

// SaveAll saves every gesture in a single transaction.
func (r *GestureRepository) SaveAll(gs []gesture.Gesture) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, g := range gs {
		if err := saveGesture(tx, g); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func saveGesture(db execer, g gesture.Gesture) error {
	directions, err := json.Marshal(g.Pattern.Directions)
	if err != nil {
		return fmt.Errorf("encode directions: %w", err)
	}
	action, err := json.Marshal(g.Action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}

	var lastUsed sql.NullInt64
	if g.LastUsed != nil {
		lastUsed = sql.NullInt64{Int64: g.LastUsed.UnixMilli(), Valid: true}
	}

	_, err = db.Exec(
		`INSERT INTO gestures (`+gestureColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			channel = excluded.channel,
			directions = excluded.directions,
			min_distance = excluded.min_distance,
			max_duration_ms = excluded.max_duration_ms,
			angle_tolerance = excluded.angle_tolerance,
			action = excluded.action,
			enabled = excluded.enabled,
			is_builtin = excluded.is_builtin,
			usage_count = excluded.usage_count,
			created_at_ms = excluded.created_at_ms,
			last_used_ms = excluded.last_used_ms`,
		g.ID, g.Name, g.Description, string(g.Channel), string(directions),
		g.Pattern.MinDistance, g.Pattern.MaxDurationMs, g.Pattern.AngleTolerance,
		string(action), g.Enabled, g.IsBuiltin, int64(g.UsageCount),
		g.CreatedAt.UnixMilli(), lastUsed,
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGesture(row scanner) (gesture.Gesture, error) {
	var (
		g                  gesture.Gesture
		channel            string
		directions, action string
		usage, createdAt   int64
		lastUsed           sql.NullInt64
	)

	err := row.Scan(
		&g.ID, &g.Name, &g.Description, &channel, &directions,
		&g.Pattern.MinDistance, &g.Pattern.MaxDurationMs, &g.Pattern.AngleTolerance,
		&action, &g.Enabled, &g.IsBuiltin, &usage, &createdAt, &lastUsed,
	)
	if err != nil {
		return gesture.Gesture{}, err
	}

	if err := json.Unmarshal([]byte(directions), &g.Pattern.Directions); err != nil {
		return gesture.Gesture{}, fmt.Errorf("gesture %s: decode directions: %w", g.ID, err)
	}
	if err := json.Unmarshal([]byte(action), &g.Action); err != nil {
		return gesture.Gesture{}, fmt.Errorf("gesture %s: decode action: %w", g.ID, err)
	}

	g.Channel = gesture.Channel(channel)
	g.UsageCount = uint64(usage)
	g.CreatedAt = time.UnixMilli(createdAt).UTC()
	if lastUsed.Valid {
		t := time.UnixMilli(lastUsed.Int64).UTC()
		g.LastUsed = &t
	}
	return g, nil
}

// GetByID retrieves a gesture by its ID.
func (r *GestureRepository) GetByID(id string) (gesture.Gesture, error) {
	g, err := scanGesture(r.db.QueryRow(
		`SELECT `+gestureColumns+` FROM gestures WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return gesture.Gesture{}, ErrNotFound
		}
		return gesture.Gesture{}, err
	}
	return g, nil
}

// List retrieves all gestures in the order they were first saved.
func (r *GestureRepository) List() ([]gesture.Gesture, error) {
	rows, err := r.db.Query(`SELECT ` + gestureColumns + ` FROM gestures ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gestures []gesture.Gesture
	for rows.Next() {
		g, err := scanGesture(rows)
		if err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gestures, nil
}

// Delete removes a gesture from the database by its ID.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
