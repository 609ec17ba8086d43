package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines persistence operations for groups.
type Repository interface {
	// Create inserts a new group together with its members.
	Create(ctx context.Context, g *Group) error
	// GetByID retrieves a group by ID.
	GetByID(ctx context.Context, id string) (*Group, error)
	// List retrieves all groups ordered by sort_order then name.
	List(ctx context.Context) ([]Group, error)
	// Update replaces a group's fields and member list.
	Update(ctx context.Context, g *Group) error
	// Delete removes a group and its members.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed group repository.
//
// Parameters:
//   - db: Open SQLite connection with the device_groups migration applied
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new group. An empty ID is filled with a generated UUID.
//
// Returns:
//   - error: ErrInvalidGroup on validation failure, ErrGroupExists on
//     conflict, otherwise a database error
func (r *SQLiteRepository) Create(ctx context.Context, g *Group) error {
	if err := Validate(g); err != nil {
		return err
	}
	if g.ID == "" {
		g.ID = GenerateID()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO device_groups (id, name, room_id, sort_order) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, nullableString(g.RoomID), g.SortOrder,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrGroupExists
		}
		return fmt.Errorf("inserting group: %w", err)
	}

	if err := insertMembers(ctx, tx, g.ID, g.DeviceIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	stored, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	g.CreatedAt = stored.CreatedAt
	g.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetByID retrieves a group and its ordered member list.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Group, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, room_id, sort_order, created_at, updated_at
		FROM device_groups WHERE id = ?`, id)

	g, err := scanGroupRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("querying group: %w", err)
	}

	members, err := r.memberIDs(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.DeviceIDs = members

	return g, nil
}

// List retrieves all groups with their members.
func (r *SQLiteRepository) List(ctx context.Context) ([]Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, room_id, sort_order, created_at, updated_at
		FROM device_groups
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	index := make(map[string]int)
	for rows.Next() {
		g, scanErr := scanGroupRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning group: %w", scanErr)
		}
		g.DeviceIDs = []string{}
		index[g.ID] = len(groups)
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	memberRows, err := r.db.QueryContext(ctx,
		`SELECT group_id, service_id FROM device_group_members ORDER BY group_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying group members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var groupID, serviceID string
		if scanErr := memberRows.Scan(&groupID, &serviceID); scanErr != nil {
			return nil, fmt.Errorf("scanning group member: %w", scanErr)
		}
		if i, ok := index[groupID]; ok {
			groups[i].DeviceIDs = append(groups[i].DeviceIDs, serviceID)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group members: %w", err)
	}

	return groups, nil
}

// Update modifies an existing group and replaces its member list.
//
// Returns:
//   - error: ErrGroupNotFound if missing, ErrInvalidGroup on validation
//     failure, otherwise the underlying database error
func (r *SQLiteRepository) Update(ctx context.Context, g *Group) error {
	if err := Validate(g); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	result, err := tx.ExecContext(ctx,
		`UPDATE device_groups SET
			name = ?, room_id = ?, sort_order = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`,
		g.Name, nullableString(g.RoomID), g.SortOrder, g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM device_group_members WHERE group_id = ?", g.ID); err != nil {
		return fmt.Errorf("clearing group members: %w", err)
	}
	if err := insertMembers(ctx, tx, g.ID, g.DeviceIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Delete removes a group by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	if _, execErr := tx.ExecContext(ctx, "DELETE FROM device_group_members WHERE group_id = ?", id); execErr != nil {
		return fmt.Errorf("deleting group members: %w", execErr)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM device_groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) memberIDs(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT service_id FROM device_group_members WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying group members: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group members: %w", err)
	}
	return ids, nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, serviceIDs []string) error {
	if len(serviceIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO device_group_members (group_id, service_id, position) VALUES (?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing member insert: %w", err)
	}
	defer stmt.Close()

	for i, serviceID := range serviceIDs {
		if _, err := stmt.ExecContext(ctx, groupID, serviceID, i); err != nil {
			return fmt.Errorf("inserting group member: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroupRow(scanner rowScanner) (*Group, error) {
	var g Group
	var roomID sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(&g.ID, &g.Name, &roomID, &g.SortOrder, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if roomID.Valid {
		g.RoomID = &roomID.String
	}

	var err error
	if g.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}

	return &g, nil
}

// parseTimestamp parses a timestamp stored in SQLite.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return ts, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
