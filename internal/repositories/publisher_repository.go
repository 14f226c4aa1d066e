package repositories

import (
	"context"
	"database/sql"
	"time"

	"postlinkBack/internal/models"
)

type PublisherRepository struct {
	DB *sql.DB
}

func (r *PublisherRepository) CreatePublisher(ctx context.Context, p models.Publisher) (models.Publisher, error) {
	query := `
        INSERT INTO publishers (name, email, phone, password, role, status, active_website_count, completed_order_count, total_earnings, account_tier, created_at)
        VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		p.Name, p.Email, p.Phone, p.Password, p.Role, p.Status, p.AccountTier, p.CreatedAt,
	)
	if err != nil {
		return models.Publisher{}, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Publisher{}, err
	}
	p.ID = int(lastID)
	return p, nil
}

func (r *PublisherRepository) GetPublisherByID(ctx context.Context, id int) (models.Publisher, error) {
	query := `
        SELECT id, name, email, phone, password, role, status,
               active_website_count, completed_order_count, total_earnings, account_tier,
               COALESCE(fcm_token, ''), created_at, updated_at
        FROM publishers
        WHERE id = ?
    `
	var p models.Publisher
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Password, &p.Role, &p.Status,
		&p.ActiveWebsiteCount, &p.CompletedOrderCount, &p.TotalEarnings, &p.AccountTier,
		&p.FCMToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Publisher{}, models.ErrPublisherNotFound
	}
	if err != nil {
		return models.Publisher{}, err
	}
	return p, nil
}

func (r *PublisherRepository) GetPublisherByEmail(ctx context.Context, email string) (models.Publisher, error) {
	query := `
        SELECT id, name, email, phone, password, role, status,
               active_website_count, completed_order_count, total_earnings, account_tier,
               COALESCE(fcm_token, ''), created_at, updated_at
        FROM publishers
        WHERE email = ?
    `
	var p models.Publisher
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Password, &p.Role, &p.Status,
		&p.ActiveWebsiteCount, &p.CompletedOrderCount, &p.TotalEarnings, &p.AccountTier,
		&p.FCMToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Publisher{}, models.ErrPublisherNotFound
	}
	if err != nil {
		return models.Publisher{}, err
	}
	return p, nil
}

func (r *PublisherRepository) GetPublishers(ctx context.Context) ([]models.Publisher, error) {
	query := `
        SELECT id, name, email, phone, password, role, status,
               active_website_count, completed_order_count, total_earnings, account_tier,
               COALESCE(fcm_token, ''), created_at, updated_at
        FROM publishers
        ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var publishers []models.Publisher
	for rows.Next() {
		var p models.Publisher
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.Phone, &p.Password, &p.Role, &p.Status,
			&p.ActiveWebsiteCount, &p.CompletedOrderCount, &p.TotalEarnings, &p.AccountTier,
			&p.FCMToken, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}
	return publishers, rows.Err()
}

// AdjustActiveWebsites applies an atomic increment/decrement so concurrent
// transitions on different websites of the same publisher never lose an
// update. The GREATEST guard keeps a drifted counter from going negative.
func (r *PublisherRepository) AdjustActiveWebsites(ctx context.Context, id, delta int) error {
	query := `
        UPDATE publishers
        SET active_website_count = GREATEST(CAST(active_website_count AS SIGNED) + ?, 0), updated_at = ?
        WHERE id = ?
    `
	result, err := r.DB.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrPublisherNotFound
	}
	return nil
}

// AddCompletedOrder credits one completed order and its earnings in a
// single atomic statement.
func (r *PublisherRepository) AddCompletedOrder(ctx context.Context, id int, earnings float64) error {
	query := `
        UPDATE publishers
        SET completed_order_count = completed_order_count + 1,
            total_earnings = total_earnings + ?,
            updated_at = ?
        WHERE id = ?
    `
	result, err := r.DB.ExecContext(ctx, query, earnings, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrPublisherNotFound
	}
	return nil
}

func (r *PublisherRepository) UpdateAccountTier(ctx context.Context, id int, tier string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE publishers SET account_tier = ?, updated_at = ? WHERE id = ?`,
		tier, time.Now(), id)
	return err
}

// SetCounters is the reconciliation full-recount write path, the only
// place the counters are overwritten rather than incremented.
func (r *PublisherRepository) SetCounters(ctx context.Context, id, activeWebsites, completedOrders int, totalEarnings float64) error {
	query := `
        UPDATE publishers
        SET active_website_count = ?, completed_order_count = ?, total_earnings = ?, updated_at = ?
        WHERE id = ?
    `
	_, err := r.DB.ExecContext(ctx, query, activeWebsites, completedOrders, totalEarnings, time.Now(), id)
	return err
}

func (r *PublisherRepository) UpdatePublisherStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE publishers SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	return err
}

func (r *PublisherRepository) SaveFCMToken(ctx context.Context, id int, token string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE publishers SET fcm_token = ?, updated_at = ? WHERE id = ?`,
		token, time.Now(), id)
	return err
}

func (r *PublisherRepository) CreateSession(ctx context.Context, session models.Session) error {
	query := `
        INSERT INTO sessions (user_id, role, refresh_token, expires_at)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), expires_at = VALUES(expires_at)
    `
	_, err := r.DB.ExecContext(ctx, query, session.UserID, session.Role, session.RefreshToken, session.ExpiresAt)
	return err
}

func (r *PublisherRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, role, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`,
		refreshToken).Scan(&session.UserID, &session.Role, &session.RefreshToken, &session.ExpiresAt)
	if err == sql.ErrNoRows {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}
