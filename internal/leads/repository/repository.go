package repository

import (
	"context"
	"fmt"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed store for leads, prompts, keys, and results.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchEligible returns every lead not yet sent to the LLM for which a
// prompt context exists. The most recent context per (user_id, tag) wins;
// leads without one are excluded server-side.
func (r *Repository) FetchEligible(ctx context.Context) ([]EligibleLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ld.lead_id, ld.user_id, ld.tag,
		       COALESCE(ld.name, ''), COALESCE(ld.title, ''), COALESCE(ld.location, ''),
		       COALESCE(ld.company_name, ''), COALESCE(ld.experience, ''), COALESCE(ld.skills, ''),
		       COALESCE(ld.bio, ''), COALESCE(ld.profile_url, ''), COALESCE(ld.linkedin_url, ''),
		       COALESCE(ld.company_page_url, ''),
		       p.wildnet_data, p.scoring_criteria_and_icp, p.message_prompt
		FROM lead_details ld
		JOIN LATERAL (
			SELECT lp.wildnet_data, lp.scoring_criteria_and_icp, lp.message_prompt
			FROM llm_prompts lp
			WHERE lp.user_id = ld.user_id AND lp.tag = ld.tag
			ORDER BY lp.created_at DESC
			LIMIT 1
		) p ON true
		WHERE ld.sent_to_llm = false
		ORDER BY ld.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	items := make([]EligibleLead, 0)
	for rows.Next() {
		var item EligibleLead
		if err := rows.Scan(
			&item.Lead.LeadID, &item.Lead.UserID, &item.Lead.Tag,
			&item.Lead.Name, &item.Lead.Title, &item.Lead.Location,
			&item.Lead.CompanyName, &item.Lead.Experience, &item.Lead.Skills,
			&item.Lead.Bio, &item.Lead.ProfileURL, &item.Lead.LinkedInURL,
			&item.Lead.CompanyPageURL,
			&item.Context.WildnetData, &item.Context.ScoringCriteriaAndICP, &item.Context.MessagePrompt,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, rows.Err())
	}

	return items, nil
}

// ListAPIKeys returns every configured Gemini API key.
func (r *Repository) ListAPIKeys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT api_key FROM gemini_api`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		if key != "" {
			keys = append(keys, key)
		}
	}

	return keys, rows.Err()
}

// InsertResponse writes the processing record for a lead. A duplicate lead_id
// is not an error: it returns false so the caller can report a skip.
func (r *Repository) InsertResponse(ctx context.Context, rec domain.ProcessingRecord) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO llm_response
			(lead_id, user_id, tag, name, linkedin_url, location, score, should_contact, subject, message, response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (lead_id) DO NOTHING
	`, rec.LeadID, rec.UserID, rec.Tag, nullable(rec.Name), nullable(rec.LinkedInURL), nullable(rec.Location),
		rec.Score, rec.ShouldContact, nullable(rec.Subject), nullable(rec.Message), nullable(rec.RawResponse))
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkProcessed flips the sent_to_llm marker. Idempotent; a missing lead is
// reported as a persistence failure so the caller can surface it.
func (r *Repository) MarkProcessed(ctx context.Context, leadID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lead_details SET sent_to_llm = true WHERE lead_id = $1
	`, leadID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lead %s not found", domain.ErrPersistenceFailed, leadID)
	}
	return nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

var (
	_ EligibilitySource = (*Repository)(nil)
	_ KeySource         = (*Repository)(nil)
	_ ResultStore       = (*Repository)(nil)
)
