package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PropertyRepo handles properties.
type PropertyRepo struct {
	db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

func (r *PropertyRepo) Upsert(ctx context.Context, p Property) error {
	if p.Status == "" {
		p.Status = StatusOnline
	}
	if !p.Status.Valid() {
		return fmt.Errorf("property %s: invalid status %q", p.ID, p.Status)
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO properties(id, name, location, rooms, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 location=excluded.location,
	 rooms=excluded.rooms,
	 status=excluded.status,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.Name, p.Location, p.Rooms, string(p.Status))
	return err
}

const propertyColumns = `id, name, location, rooms, status, created_at, updated_at`

func (r *PropertyRepo) List(ctx context.Context) ([]Property, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PropertyRepo) Get(ctx context.Context, id string) (Property, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Property{}, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *PropertyRepo) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("property name is empty")
	}
	res, err := r.db.ExecContext(ctx, `UPDATE properties SET name = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "property "+id)
}

func (r *PropertyRepo) SetStatus(ctx context.Context, id string, status PropertyStatus) error {
	if !status.Valid() {
		return fmt.Errorf("property %s: invalid status %q", id, status)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE properties SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "property "+id)
}

// SetAllStatus moves every property to status and returns how many changed.
func (r *PropertyRepo) SetAllStatus(ctx context.Context, status PropertyStatus) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("invalid status %q", status)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE properties SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE status != ?`, string(status), string(status))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteMany removes the given properties (and their metrics, by cascade)
// in one transaction and returns the number of rows deleted. Unknown ids are
// ignored.
func (r *PropertyRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, id := range ids {
		res, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("delete property %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

func scanProperty(row scanner) (Property, error) {
	var p Property
	var status string
	if err := row.Scan(&p.ID, &p.Name, &p.Location, &p.Rooms, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Property{}, err
	}
	p.Status = PropertyStatus(status)
	return p, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
