package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"postlinkBack/internal/models"
)

type WebsiteRepository struct {
	DB *sql.DB
}

const websiteColumns = `
    id, publisher_id, url, niche, authority_score, monthly_traffic, price, status,
    co_price, co_notes, co_terms, co_offered_by, co_offered_at, co_status,
    COALESCE(verification_method, ''), verified_at, COALESCE(rejection_reason, ''),
    created_at, updated_at
`

func (r *WebsiteRepository) CreateWebsite(ctx context.Context, w models.Website) (models.Website, error) {
	query := `
        INSERT INTO websites (publisher_id, url, niche, authority_score, monthly_traffic, price, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		w.PublisherID, w.URL, w.Niche, w.AuthorityScore, w.MonthlyTraffic, w.Price, w.Status, w.CreatedAt,
	)
	if err != nil {
		return models.Website{}, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Website{}, err
	}
	w.ID = int(lastID)
	return w, nil
}

func scanWebsite(scanner interface{ Scan(...any) error }) (models.Website, error) {
	var w models.Website
	var coPrice sql.NullFloat64
	var coNotes, coTerms, coOfferedBy, coStatus sql.NullString
	var coOfferedAt sql.NullTime

	err := scanner.Scan(
		&w.ID, &w.PublisherID, &w.URL, &w.Niche, &w.AuthorityScore, &w.MonthlyTraffic, &w.Price, &w.Status,
		&coPrice, &coNotes, &coTerms, &coOfferedBy, &coOfferedAt, &coStatus,
		&w.VerificationMethod, &w.VerifiedAt, &w.RejectionReason,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return models.Website{}, err
	}

	if coStatus.Valid {
		w.CounterOffer = &models.CounterOffer{
			Price:     coPrice.Float64,
			Notes:     coNotes.String,
			Terms:     coTerms.String,
			OfferedBy: coOfferedBy.String,
			OfferedAt: coOfferedAt.Time,
			Status:    coStatus.String,
		}
	}
	return w, nil
}

func (r *WebsiteRepository) GetWebsiteByID(ctx context.Context, id int) (models.Website, error) {
	query := `SELECT ` + websiteColumns + ` FROM websites WHERE id = ?`
	w, err := scanWebsite(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return models.Website{}, models.ErrWebsiteNotFound
	}
	if err != nil {
		return models.Website{}, err
	}
	return w, nil
}

func (r *WebsiteRepository) GetWebsitesByPublisher(ctx context.Context, publisherID int) ([]models.Website, error) {
	query := `SELECT ` + websiteColumns + ` FROM websites WHERE publisher_id = ? AND status <> 'deleted' ORDER BY created_at DESC`
	return r.queryWebsites(ctx, query, publisherID)
}

func (r *WebsiteRepository) GetWebsitesByStatus(ctx context.Context, status string) ([]models.Website, error) {
	query := `SELECT ` + websiteColumns + ` FROM websites WHERE status = ? ORDER BY created_at DESC`
	return r.queryWebsites(ctx, query, status)
}

func (r *WebsiteRepository) queryWebsites(ctx context.Context, query string, args ...any) ([]models.Website, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var websites []models.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, err
		}
		websites = append(websites, w)
	}
	return websites, rows.Err()
}

// SetCounterOffer overwrites the offer sub-record and moves the listing to
// counter-offer, but only from one of the given statuses. Returns false
// when the guard matched nothing.
func (r *WebsiteRepository) SetCounterOffer(ctx context.Context, id int, fromStatuses []string, offer models.CounterOffer) (bool, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fromStatuses)), ",")
	query := `
        UPDATE websites
        SET status = 'counter-offer',
            co_price = ?, co_notes = ?, co_terms = ?, co_offered_by = ?, co_offered_at = ?, co_status = 'pending',
            updated_at = ?
        WHERE id = ? AND status IN (` + placeholders + `)`

	args := []any{offer.Price, offer.Notes, offer.Terms, offer.OfferedBy, offer.OfferedAt, time.Now(), id}
	for _, st := range fromStatuses {
		args = append(args, st)
	}
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// AcceptCounterOffer activates the listing at the offered price in one
// atomic update, guarded on a pending offer (optionally from a specific
// side). The offer record is kept for audit.
func (r *WebsiteRepository) AcceptCounterOffer(ctx context.Context, id int, offeredBy string) (bool, error) {
	query := `
        UPDATE websites
        SET status = 'active', price = co_price, co_status = 'accepted', updated_at = ?
        WHERE id = ? AND status = 'counter-offer' AND co_status = 'pending'
    `
	args := []any{time.Now(), id}
	if offeredBy != "" {
		query += ` AND co_offered_by = ?`
		args = append(args, offeredBy)
	}
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *WebsiteRepository) RejectCounterOffer(ctx context.Context, id int) (bool, error) {
	query := `
        UPDATE websites
        SET status = 'rejected', co_status = 'rejected', updated_at = ?
        WHERE id = ? AND status = 'counter-offer' AND co_status = 'pending'
    `
	result, err := r.DB.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// Verify activates the listing directly. Returns true only when the status
// actually changed to active; re-verifying an active listing refreshes the
// verification record without reporting an activation.
func (r *WebsiteRepository) Verify(ctx context.Context, id int, method string, at time.Time) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
        UPDATE websites
        SET status = 'active', verification_method = ?, verified_at = ?, updated_at = ?
        WHERE id = ? AND status NOT IN ('active', 'deleted')
    `, method, at, time.Now(), id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return true, nil
	}

	_, err = r.DB.ExecContext(ctx, `
        UPDATE websites
        SET verification_method = ?, verified_at = ?, updated_at = ?
        WHERE id = ? AND status = 'active'
    `, method, at, time.Now(), id)
	return false, err
}

func (r *WebsiteRepository) UpdateWebsiteStatus(ctx context.Context, id int, from, to, reason string) (bool, error) {
	query := `
        UPDATE websites
        SET status = ?, rejection_reason = ?, updated_at = ?
        WHERE id = ? AND status = ?
    `
	result, err := r.DB.ExecContext(ctx, query, to, reason, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *WebsiteRepository) SoftDeleteWebsite(ctx context.Context, id int) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
        UPDATE websites
        SET status = 'deleted', updated_at = ?
        WHERE id = ? AND status NOT IN ('active', 'deleted')
    `, time.Now(), id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// CountActiveByPublisher is the authoritative recount used by
// reconciliation.
func (r *WebsiteRepository) CountActiveByPublisher(ctx context.Context, publisherID int) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM websites WHERE publisher_id = ? AND status = 'active'`,
		publisherID).Scan(&count)
	return count, err
}
