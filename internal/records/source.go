// Package records reads investment-tracking entries from a records store.
package records

import (
	"context"
	"time"

	apperrors "investment-digest/internal/errors"
	"investment-digest/internal/logging"
	"investment-digest/internal/models"
	"investment-digest/internal/security"
)

// SortSpec orders a query by one property.
type SortSpec struct {
	Field     string
	Ascending bool
}

// Source is a records store that can be queried for a collection.
type Source interface {
	// Name identifies the store in logs and errors.
	Name() string
	// Query returns every record of the collection in the requested order.
	Query(ctx context.Context, collectionID string, sorts []SortSpec) ([]models.RawRecord, error)
}

// ByNextActionDate sorts ascending by the next action date.
var ByNextActionDate = []SortSpec{{Field: models.FieldNextActionDate, Ascending: true}}

// Fetch runs a single query for the collection sorted by next action date.
// Failures are logged and returned as *errors.FetchError; there is no retry.
func Fetch(ctx context.Context, src Source, collectionID string) ([]models.RawRecord, error) {
	logger := logging.WithStage(logging.FromContext(ctx), "fetch")
	start := time.Now()

	recs, err := src.Query(ctx, collectionID, ByNextActionDate)
	logging.LogAPICall(logger, "query", src.Name(), time.Since(start), err)
	if err != nil {
		err = security.MaskError(err)
		logger.Error().
			Str("source", src.Name()).
			Str("collection", collectionID).
			Err(err).
			Msg("Failed to fetch records")
		return nil, apperrors.NewFetchError(src.Name(), collectionID, err)
	}

	logger.Info().
		Str("source", src.Name()).
		Int("count", len(recs)).
		Msg("Fetched records")
	return recs, nil
}
