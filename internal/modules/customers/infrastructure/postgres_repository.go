package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"acapulcoWs/internal/modules/customers/application/port"
	"acapulcoWs/internal/modules/customers/domain"
)

// PostgresRepository keeps profiles and customer_addresses.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, COALESCE(full_name, ''), COALESCE(phone, ''), COALESCE(default_address_id::text, ''), updated_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&p.UserID, &p.FullName, &p.Phone, &p.DefaultAddressID, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("%w: %s", port.ErrProfileNotFound, userID)
	}
	return p, err
}

// SaveProfile upserts name and phone. The default address is only moved by
// SetDefaultAddress.
func (r *PostgresRepository) SaveProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, full_name, phone, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone = EXCLUDED.phone,
		    updated_at = EXCLUDED.updated_at
	`, p.UserID, p.FullName, p.Phone, p.UpdatedAt)
	return err
}

func (r *PostgresRepository) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, user_id, COALESCE(label, ''), address_line, COALESCE(notes, ''), is_default, created_at
		FROM customer_addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Address, error) {
		var a domain.Address
		err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Line, &a.Notes, &a.IsDefault, &a.CreatedAt)
		return a, err
	})
}

func (r *PostgresRepository) InsertAddress(ctx context.Context, a domain.Address) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customer_addresses (id, user_id, label, address_line, notes, is_default, created_at)
		VALUES ($1::uuid, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7)
	`, a.ID, a.UserID, a.Label, a.Line, a.Notes, a.IsDefault, a.CreatedAt)
	return err
}

func (r *PostgresRepository) UpdateAddressLine(ctx context.Context, userID, id, line string) error {
	if err := checkAddressID(id); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE customer_addresses SET address_line = $3
		WHERE id = $2::uuid AND user_id = $1
	`, userID, id, line)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAddressNotFound, id)
	}
	return nil
}

func (r *PostgresRepository) SetDefaultAddress(ctx context.Context, userID, id string) error {
	if err := checkAddressID(id); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE customer_addresses SET is_default = TRUE
			WHERE id = $2::uuid AND user_id = $1
		`, userID, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrAddressNotFound, id)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE customer_addresses SET is_default = FALSE
			WHERE user_id = $1 AND id <> $2::uuid AND is_default
		`, userID, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO profiles (id, default_address_id, updated_at)
			VALUES ($1, $2::uuid, now())
			ON CONFLICT (id) DO UPDATE
			SET default_address_id = EXCLUDED.default_address_id,
			    updated_at = EXCLUDED.updated_at
		`, userID, id)
		return err
	})
}

func (r *PostgresRepository) DeleteAddress(ctx context.Context, userID, id string) error {
	if err := checkAddressID(id); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM customer_addresses WHERE id = $2::uuid AND user_id = $1`, userID, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrAddressNotFound, id)
		}
		_, err = tx.Exec(ctx, `
			UPDATE profiles SET default_address_id = NULL
			WHERE id = $1 AND default_address_id = $2::uuid
		`, userID, id)
		return err
	})
}

// checkAddressID keeps malformed ids away from the uuid cast.
func checkAddressID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrAddressNotFound, id)
	}
	return nil
}

var _ port.Repository = (*PostgresRepository)(nil)
