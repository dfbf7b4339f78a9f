package aggregate

import (
	"context"
	"errors"

	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
)

type CastVoteRequest struct {
	EntityId uuid.UUID `json:"entityId" validate:"required"`
	Vote     string    `json:"vote" validate:"required"` // like or dislike
}

// CastVote applies the requester's like or dislike and returns the
// recomputed tally. Casting the same vote twice retracts it, casting the
// opposite vote switches it.
func CastVote(ctx context.Context, requester *model.User, request CastVoteRequest) (*model.VoteTally, error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, model.ErrNoRequester
	}

	if !model.ValidVoteValue(request.Vote) {
		return nil, model.ErrInvalidVote
	}

	s, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var (
		docId = model.VotableDocumentId(request.EntityId)
		tally model.VoteTally
	)

	err = withConflictRetry(ctx, "cast vote", func() error {
		var doc model.VotableDocument
		version, err := s.Load(ctx, docId, &doc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.ErrNotFound
			}
			return err
		}

		doc.Toggle(requester.Id, request.Vote)

		if err = s.Save(ctx, docId, &doc, version); err != nil {
			return err
		}

		tally = doc.VoteTally
		return nil
	})
	if err != nil {
		return nil, err
	}

	reportEvent(ctx, requester, request.EntityId, "vote_cast", tally)

	return &tally, nil
}
