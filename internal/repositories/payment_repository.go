package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"postlinkBack/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

// CreateInvoice writes the invoice row and claims every referenced order
// inside one transaction. An order that is no longer completed-and-unclaimed
// fails its conditional claim, rolling back the whole aggregation, so two
// concurrent generations can never both claim the same order.
func (r *PaymentRepository) CreateInvoice(ctx context.Context, invoice models.Payment, orderIDs []int) (models.Payment, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Payment{}, err
	}
	defer tx.Rollback()

	invoiceNumber, err := nextInvoiceNumber(ctx, tx, invoice.InvoiceDate)
	if err != nil {
		return models.Payment{}, err
	}
	invoice.InvoiceNumber = invoiceNumber
	invoice.CreatedAt = time.Now()

	result, err := tx.ExecContext(ctx, `
        INSERT INTO payments (invoice_number, publisher_id, amount, description, status, manual, invoice_date, due_date, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, invoice.InvoiceNumber, invoice.PublisherID, invoice.Amount, invoice.Description,
		invoice.Status, invoice.Manual, invoice.InvoiceDate, invoice.DueDate, invoice.CreatedAt)
	if err != nil {
		return models.Payment{}, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Payment{}, err
	}
	invoice.ID = int(lastID)

	for _, orderID := range orderIDs {
		claim, err := tx.ExecContext(ctx, `
            UPDATE orders
            SET invoice_id = ?, updated_at = ?
            WHERE id = ? AND publisher_id = ? AND status = 'completed' AND invoice_id IS NULL
        `, invoice.ID, time.Now(), orderID, invoice.PublisherID)
		if err != nil {
			return models.Payment{}, err
		}
		rows, err := claim.RowsAffected()
		if err != nil {
			return models.Payment{}, err
		}
		if rows == 0 {
			return models.Payment{}, &models.ValidationError{
				Reason: fmt.Sprintf("order %d is not claimable (not completed or already invoiced)", orderID),
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Payment{}, err
	}
	invoice.OrderIDs = orderIDs
	return invoice, nil
}

// nextInvoiceNumber allocates INV-<YYYY><MM>-<seq> from a per-period
// counter row, inside the caller's transaction.
func nextInvoiceNumber(ctx context.Context, tx *sql.Tx, invoiceDate time.Time) (string, error) {
	period := invoiceDate.Format("200601")
	result, err := tx.ExecContext(ctx, `
        INSERT INTO invoice_counters (period, seq) VALUES (?, LAST_INSERT_ID(1))
        ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)
    `, period)
	if err != nil {
		return "", err
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%d", period, seq), nil
}

func (r *PaymentRepository) GetInvoiceByID(ctx context.Context, id int) (models.Payment, error) {
	query := `
        SELECT id, invoice_number, publisher_id, amount, COALESCE(description, ''), status, manual,
               invoice_date, due_date, payment_date, created_at
        FROM payments
        WHERE id = ?
    `
	var p models.Payment
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.InvoiceNumber, &p.PublisherID, &p.Amount, &p.Description, &p.Status, &p.Manual,
		&p.InvoiceDate, &p.DueDate, &p.PaymentDate, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Payment{}, models.ErrInvoiceNotFound
	}
	if err != nil {
		return models.Payment{}, err
	}

	orderIDs, err := r.invoiceOrderIDs(ctx, p.ID)
	if err != nil {
		return models.Payment{}, err
	}
	p.OrderIDs = orderIDs
	return p, nil
}

func (r *PaymentRepository) invoiceOrderIDs(ctx context.Context, invoiceID int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM orders WHERE invoice_id = ? ORDER BY id`, invoiceID)
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

func (r *PaymentRepository) GetInvoicesByPublisher(ctx context.Context, publisherID int) ([]models.Payment, error) {
	return r.queryInvoices(ctx, `
        SELECT id, invoice_number, publisher_id, amount, COALESCE(description, ''), status, manual,
               invoice_date, due_date, payment_date, created_at
        FROM payments
        WHERE publisher_id = ?
        ORDER BY created_at DESC
    `, publisherID)
}

func (r *PaymentRepository) GetRecentInvoices(ctx context.Context, publisherID, limit int) ([]models.Payment, error) {
	return r.queryInvoices(ctx, `
        SELECT id, invoice_number, publisher_id, amount, COALESCE(description, ''), status, manual,
               invoice_date, due_date, payment_date, created_at
        FROM payments
        WHERE publisher_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `, publisherID, limit)
}

func (r *PaymentRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.InvoiceNumber, &p.PublisherID, &p.Amount, &p.Description, &p.Status, &p.Manual,
			&p.InvoiceDate, &p.DueDate, &p.PaymentDate, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) MarkProcessing(ctx context.Context, id int) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE payments SET status = 'processing' WHERE id = ? AND status = 'pending'`, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *PaymentRepository) MarkPaid(ctx context.Context, id int, at time.Time) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE payments SET status = 'paid', payment_date = ? WHERE id = ? AND status IN ('pending', 'processing')`,
		at, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// MarkFailed voids the invoice and releases its order claims in one
// transaction, so the orders become eligible for a later aggregation.
func (r *PaymentRepository) MarkFailed(ctx context.Context, id int) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = 'failed' WHERE id = ? AND status IN ('pending', 'processing')`, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET invoice_id = NULL, updated_at = ? WHERE invoice_id = ?`,
		time.Now(), id); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
