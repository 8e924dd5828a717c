package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/church-agenda/internal/model"
)

// SpaceRepo provides persistence for bookable spaces.
type SpaceRepo struct{ DB *sql.DB }

func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{DB: db} }

const spaceColumns = "id,name,space_type,capacity,description,requires_approval,is_active,created_at,updated_at"

func scanSpace(scan func(dest ...any) error) (model.Space, error) {
	var (
		s      model.Space
		capVal sql.NullInt64
		desc   sql.NullString
	)
	err := scan(&s.ID, &s.Name, &s.SpaceType, &capVal, &desc,
		&s.RequiresApproval, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if capVal.Valid {
		c := uint32(capVal.Int64)
		s.Capacity = &c
	}
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	return s, nil
}

// Create inserts a space and populates the generated ID.
func (r *SpaceRepo) Create(ctx context.Context, s *model.Space) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO spaces (name, space_type, capacity, description, requires_approval, is_active)
		 VALUES (?,?,?,?,?,?)`,
		s.Name, s.SpaceType, s.Capacity, s.Description, s.RequiresApproval, s.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a space by id.
func (r *SpaceRepo) GetByID(ctx context.Context, id uint64) (model.Space, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+spaceColumns+" FROM spaces WHERE id=? LIMIT 1", id)
	return scanSpace(row.Scan)
}

// List returns spaces ordered by name. When activeOnly is true, inactive
// spaces are filtered out.
func (r *SpaceRepo) List(ctx context.Context, activeOnly bool) ([]model.Space, error) {
	q := "SELECT " + spaceColumns + " FROM spaces"
	if activeOnly {
		q += " WHERE is_active=1"
	}
	q += " ORDER BY name"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	spaces := make([]model.Space, 0)
	for rows.Next() {
		s, err := scanSpace(rows.Scan)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, s)
	}
	return spaces, rows.Err()
}

// Update rewrites the mutable fields of a space.
func (r *SpaceRepo) Update(ctx context.Context, s *model.Space) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE spaces SET name=?, space_type=?, capacity=?, description=?, requires_approval=?, is_active=?
		 WHERE id=?`,
		s.Name, s.SpaceType, s.Capacity, s.Description, s.RequiresApproval, s.IsActive, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
