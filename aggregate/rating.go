package aggregate

import (
	"context"
	"errors"
	"time"

	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
)

type SubmitRatingRequest struct {
	EntityId uuid.UUID `json:"entityId" validate:"required"`
	Value    int32     `json:"value" validate:"required"`
	Comment  string    `json:"comment,omitempty"`
}

// SubmitRating records the requester's star rating of the entity and
// returns the recomputed summary. A repeat submission by the same user
// replaces the prior rating in place, the count does not grow.
func SubmitRating(ctx context.Context, requester *model.User, request SubmitRatingRequest) (*model.RatingSummary, error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, model.ErrNoRequester
	}

	if !model.ValidRatingValue(request.Value) {
		return nil, model.ErrInvalidRating
	}

	s, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var (
		docId   = model.RatableDocumentId(request.EntityId)
		summary model.RatingSummary
	)

	err = withConflictRetry(ctx, "submit rating", func() error {
		var doc model.RatableDocument
		version, err := s.Load(ctx, docId, &doc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.ErrNotFound
			}
			return err
		}

		doc.Rate(requester.Id, request.Value, request.Comment, time.Now().UTC())

		if err = s.Save(ctx, docId, &doc, version); err != nil {
			return err
		}

		summary = doc.RatingSummary
		return nil
	})
	if err != nil {
		return nil, err
	}

	reportEvent(ctx, requester, request.EntityId, "rating_submitted", summary)

	return &summary, nil
}
