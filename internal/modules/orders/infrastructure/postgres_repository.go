package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	ordering "acapulcoWs/internal/modules/ordering/domain"
	"acapulcoWs/internal/modules/orders/application/port"
	"acapulcoWs/internal/modules/orders/domain"
)

// PostgresRepository stores orders in the pedidos table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `
	id::text, status, delivery_type, customer_name, customer_phone,
	COALESCE(address_line, ''), COALESCE(requested_time, ''), COALESCE(hora_confirmada, ''),
	COALESCE(observations, ''), COALESCE(observacoes_admin, ''), items, total::text,
	created_at, updated_at, accepted_at, rejected_at, COALESCE(user_id, '')`

func (r *PostgresRepository) Insert(ctx context.Context, o domain.Order) error {
	items, err := encodeItems(o.Items)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO pedidos (
			id, status, delivery_type, customer_name, customer_phone, address_line,
			requested_time, observations, items, total, created_at, updated_at, user_id
		) VALUES ($1::uuid, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10::numeric, $11, $12, NULLIF($13, ''))
	`, o.ID, string(o.Status), string(o.DeliveryType), o.CustomerName, o.CustomerPhone, o.AddressLine,
		o.RequestedTime, o.Observations, items, o.Total.StringFixed(2), o.CreatedAt, o.UpdatedAt, o.CustomerID)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM pedidos WHERE id = $1::uuid`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("%w: %s", port.ErrOrderNotFound, id)
	}
	return order, err
}

func (r *PostgresRepository) ListBetween(ctx context.Context, start, end time.Time, statuses []domain.Status) ([]domain.Order, error) {
	filter := make([]string, 0, len(statuses))
	for _, s := range statuses {
		filter = append(filter, s.Spellings()...)
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM pedidos
		WHERE created_at >= $1 AND created_at < $2
		  AND (cardinality($3::text[]) = 0 OR LOWER(TRIM(COALESCE(status, ''))) = ANY($3::text[]))
		ORDER BY created_at ASC
	`, start, end, filter)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		return scanOrder(row)
	})
}

func (r *PostgresRepository) Update(ctx context.Context, o domain.Order, expected domain.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE pedidos
		SET status = $2,
		    hora_confirmada = NULLIF($3, ''),
		    observacoes_admin = NULLIF($4, ''),
		    updated_at = $5,
		    accepted_at = $6,
		    rejected_at = $7
		WHERE id = $1::uuid
		  AND LOWER(TRIM(COALESCE(status, ''))) = ANY($8::text[])
	`, o.ID, string(o.Status), o.ConfirmedTime, o.AdminNotes, o.UpdatedAt, o.AcceptedAt, o.RejectedAt, expected.Spellings())
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT COALESCE(status, '') FROM pedidos WHERE id = $1::uuid`, o.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", port.ErrOrderNotFound, o.ID)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s is %s, expected %s", port.ErrStatusChanged, o.ID, current, expected)
}

// ListByCustomer returns the customer's orders, newest first.
func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM pedidos
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		return scanOrder(row)
	})
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o        domain.Order
		status   string
		delivery string
		items    []byte
		total    string
	)
	err := row.Scan(
		&o.ID, &status, &delivery, &o.CustomerName, &o.CustomerPhone,
		&o.AddressLine, &o.RequestedTime, &o.ConfirmedTime,
		&o.Observations, &o.AdminNotes, &items, &total,
		&o.CreatedAt, &o.UpdatedAt, &o.AcceptedAt, &o.RejectedAt, &o.CustomerID,
	)
	if err != nil {
		return domain.Order{}, err
	}
	if normalized, ok := domain.NormalizeStatus(status); ok {
		o.Status = normalized
	} else {
		o.Status = domain.Status(status)
	}
	if dt, ok := ordering.ParseDeliveryType(delivery); ok {
		o.DeliveryType = dt
	} else {
		o.DeliveryType = ordering.DeliveryType(delivery)
	}
	if o.Items, err = decodeItems(items); err != nil {
		return domain.Order{}, fmt.Errorf("order %s items: %w", o.ID, err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, fmt.Errorf("order %s total: %w", o.ID, err)
	}
	return o, nil
}

// storedItem keeps prices as JSON numbers, which is how the storefront
// has always written them.
type storedItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Price    *json.Number `json:"price"`
	Quantity int          `json:"quantity"`
}

func encodeItems(items []ordering.OrderItem) ([]byte, error) {
	stored := make([]storedItem, 0, len(items))
	for _, item := range items {
		s := storedItem{ID: item.ID, Name: item.Name, Quantity: item.Quantity}
		if item.Price.Valid {
			n := json.Number(item.Price.Decimal.String())
			s.Price = &n
		}
		stored = append(stored, s)
	}
	return json.Marshal(stored)
}

func decodeItems(raw []byte) ([]ordering.OrderItem, error) {
	if len(raw) == 0 {
		return []ordering.OrderItem{}, nil
	}
	var stored []storedItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	items := make([]ordering.OrderItem, 0, len(stored))
	for _, s := range stored {
		item := ordering.OrderItem{ID: s.ID, Name: s.Name, Quantity: s.Quantity}
		if s.Price != nil {
			price, err := decimal.NewFromString(s.Price.String())
			if err != nil {
				return nil, fmt.Errorf("price of %s: %w", s.Name, err)
			}
			item.Price = decimal.NewNullDecimal(price)
		}
		items = append(items, item)
	}
	return items, nil
}

var _ port.Repository = (*PostgresRepository)(nil)
