package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/repo/repo_errors"
	"pilot-bidding-api/pkg/postgres"

	"github.com/google/uuid"
)

type EnquiryRepo struct {
	*postgres.Postgres
}

func NewEnquiryRepo(pgdb *postgres.Postgres) *EnquiryRepo {
	return &EnquiryRepo{pgdb}
}

func (r *EnquiryRepo) GetEnquiryById(ctx context.Context, id uuid.UUID) (*entity.Enquiry, error) {
	const op = "pgdb.EnquiryRepo.GetEnquiryById"

	sqlReq, args, err := r.SqlBuilder.
		Select("id", "service_slug", "date_needed", "date_flexibility",
			"site_location_text", "postcode", "brief", "created_at").
		From("enquiry").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var enquiry entity.Enquiry
	var dateNeeded sql.NullTime
	err = r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(
		&enquiry.Id, &enquiry.ServiceSlug, &dateNeeded, &enquiry.DateFlexibility,
		&enquiry.SiteLocationText, &enquiry.Postcode, &enquiry.Brief, &enquiry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if dateNeeded.Valid {
		enquiry.DateNeeded = &dateNeeded.Time
	}

	return &enquiry, nil
}
