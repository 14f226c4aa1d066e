package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"postlinkBack/internal/models"
)

type OrderRepository struct {
	DB *sql.DB
}

const orderColumns = `
    id, order_number, publisher_id, website_id, title, content, target_url, anchor_text,
    attachments, deadline, earnings, status,
    COALESCE(submitted_url, ''), submitted_at, COALESCE(revision_notes, ''),
    COALESCE(verification_notes, ''), completed_at, invoice_id, link_live, link_checked_at,
    created_at, updated_at
`

func (r *OrderRepository) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	attachmentsJSON, err := json.Marshal(o.Attachments)
	if err != nil {
		return models.Order{}, err
	}

	query := `
        INSERT INTO orders (order_number, publisher_id, website_id, title, content, target_url, anchor_text, attachments, deadline, earnings, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		o.OrderNumber, o.PublisherID, o.WebsiteID, o.Title, o.Content, o.TargetURL, o.AnchorText,
		string(attachmentsJSON), o.Deadline, o.Earnings, o.Status, o.CreatedAt,
	)
	if err != nil {
		return models.Order{}, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Order{}, err
	}
	o.ID = int(lastID)
	return o, nil
}

func scanOrder(scanner interface{ Scan(...any) error }) (models.Order, error) {
	var o models.Order
	var attachmentsJSON []byte
	err := scanner.Scan(
		&o.ID, &o.OrderNumber, &o.PublisherID, &o.WebsiteID, &o.Title, &o.Content, &o.TargetURL, &o.AnchorText,
		&attachmentsJSON, &o.Deadline, &o.Earnings, &o.Status,
		&o.SubmittedURL, &o.SubmittedAt, &o.RevisionNotes,
		&o.VerificationNotes, &o.CompletedAt, &o.InvoiceID, &o.LinkLive, &o.LinkCheckedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return models.Order{}, err
	}
	if len(attachmentsJSON) > 0 {
		if err := json.Unmarshal(attachmentsJSON, &o.Attachments); err != nil {
			return models.Order{}, err
		}
	}
	return o, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return models.Order{}, models.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) GetOrdersByIDs(ctx context.Context, ids []int) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id IN (` + placeholders + `)`
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return r.queryOrders(ctx, query, args...)
}

func (r *OrderRepository) GetOrdersByPublisher(ctx context.Context, publisherID int, status string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE publisher_id = ?`
	args := []any{publisherID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Transition moves an order between two explicit states; the WHERE guard
// makes duplicate calls report false instead of silently repeating.
func (r *OrderRepository) Transition(ctx context.Context, id int, from, to string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// SubmitURL records the live URL and moves the order to verifying, from
// ready-to-post or a revision request. Prior revision notes are cleared so
// a resubmission starts clean.
func (r *OrderRepository) SubmitURL(ctx context.Context, id int, submittedURL string, at time.Time) (bool, error) {
	query := `
        UPDATE orders
        SET status = 'verifying', submitted_url = ?, submitted_at = ?, revision_notes = NULL, updated_at = ?
        WHERE id = ? AND status IN ('ready-to-post', 'revision-requested')
    `
	result, err := r.DB.ExecContext(ctx, query, submittedURL, at, time.Now(), id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// Complete is the single earnings-credit gate: the status guard means at
// most one invocation per order ever reports true.
func (r *OrderRepository) Complete(ctx context.Context, id int, at time.Time) (bool, error) {
	query := `
        UPDATE orders
        SET status = 'completed', completed_at = ?, updated_at = ?
        WHERE id = ? AND status NOT IN ('completed', 'cancelled')
    `
	result, err := r.DB.ExecContext(ctx, query, at, time.Now(), id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *OrderRepository) RequestRevision(ctx context.Context, id int, notes string) (bool, error) {
	query := `
        UPDATE orders
        SET status = 'revision-requested', revision_notes = ?, updated_at = ?
        WHERE id = ? AND status = 'verifying'
    `
	result, err := r.DB.ExecContext(ctx, query, notes, time.Now(), id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *OrderRepository) Cancel(ctx context.Context, id int) (bool, error) {
	query := `
        UPDATE orders
        SET status = 'cancelled', updated_at = ?
        WHERE id = ? AND status NOT IN ('completed', 'cancelled')
    `
	result, err := r.DB.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *OrderRepository) SetVerificationNotes(ctx context.Context, id int, notes string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET verification_notes = ?, updated_at = ? WHERE id = ?`,
		notes, time.Now(), id)
	return err
}

func (r *OrderRepository) AddAttachment(ctx context.Context, id int, attachmentURL string) error {
	o, err := r.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	attachmentsJSON, err := json.Marshal(append(o.Attachments, attachmentURL))
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE orders SET attachments = ?, updated_at = ? WHERE id = ?`,
		string(attachmentsJSON), time.Now(), id)
	return err
}

func (r *OrderRepository) ListUnclaimedCompleted(ctx context.Context, publisherID int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE publisher_id = ? AND status = 'completed' AND invoice_id IS NULL ORDER BY completed_at`
	return r.queryOrders(ctx, query, publisherID)
}

func (r *OrderRepository) PublishersWithUnclaimedCompleted(ctx context.Context) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT publisher_id FROM orders WHERE status = 'completed' AND invoice_id IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *OrderRepository) CountCompletedByPublisher(ctx context.Context, publisherID int) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE publisher_id = ? AND status = 'completed'`,
		publisherID).Scan(&count)
	return count, err
}

func (r *OrderRepository) SumCompletedEarnings(ctx context.Context, publisherID int) (float64, error) {
	var sum float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(earnings), 0) FROM orders WHERE publisher_id = ? AND status = 'completed'`,
		publisherID).Scan(&sum)
	return sum, err
}

func (r *OrderRepository) SumUnclaimedEarnings(ctx context.Context, publisherID int) (float64, error) {
	var sum float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(earnings), 0) FROM orders WHERE publisher_id = ? AND status = 'completed' AND invoice_id IS NULL`,
		publisherID).Scan(&sum)
	return sum, err
}

func (r *OrderRepository) ListCompletedForLinkCheck(ctx context.Context, olderThan time.Time) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = 'completed' AND submitted_url IS NOT NULL AND (link_checked_at IS NULL OR link_checked_at < ?)`
	return r.queryOrders(ctx, query, olderThan)
}

func (r *OrderRepository) RecordLinkCheck(ctx context.Context, orderID int, live bool, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET link_live = ?, link_checked_at = ? WHERE id = ?`,
		live, at, orderID)
	return err
}
