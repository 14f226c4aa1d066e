package repositories

import (
	"context"
	"database/sql"

	"postlinkBack/internal/models"
)

type TicketRepository struct {
	DB *sql.DB
}

func (r *TicketRepository) CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	query := `
        INSERT INTO tickets (ticket_number, publisher_id, subject, body, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		t.TicketNumber, t.PublisherID, t.Subject, t.Body, t.Status, t.CreatedAt)
	if err != nil {
		return models.Ticket{}, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Ticket{}, err
	}
	t.ID = int(lastID)
	return t, nil
}

func (r *TicketRepository) GetTicketsByPublisher(ctx context.Context, publisherID int) ([]models.Ticket, error) {
	query := `
        SELECT id, ticket_number, publisher_id, subject, body, status, created_at
        FROM tickets
        WHERE publisher_id = ?
        ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, publisherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.TicketNumber, &t.PublisherID, &t.Subject, &t.Body, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
