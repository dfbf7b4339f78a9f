package aggregate

import (
	"context"
	"errors"

	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
)

type FavoriteRequest struct {
	ItemId   uuid.UUID `json:"itemId" validate:"required"`
	ItemType string    `json:"itemType" validate:"required"`
}

// AddFavorite records the favorite on both sides of the relation, first on
// the entity, then on the user. The two writes touch different aggregate
// roots and are not atomic together, a failure between them leaves the
// relation one-sided until the caller retries. Both sides use set
// semantics, so a retry of the whole operation converges.
func AddFavorite(ctx context.Context, requester *model.User, request FavoriteRequest) error {
	return syncFavorite(ctx, requester, request, true)
}

// RemoveFavorite removes the favorite from both sides of the relation.
// Removing an absent favorite is a no-op, not an error.
func RemoveFavorite(ctx context.Context, requester *model.User, request FavoriteRequest) error {
	return syncFavorite(ctx, requester, request, false)
}

func syncFavorite(ctx context.Context, requester *model.User, request FavoriteRequest, add bool) error {
	if requester == nil || requester.Id == uuid.Nil {
		return model.ErrNoRequester
	}

	s, err := storeFromContext(ctx)
	if err != nil {
		return err
	}

	var (
		entityDocId = model.FavoritableDocumentId(request.ItemId)
		userDocId   = model.UserFavoritesDocumentId(requester.Id)
		ref         = model.FavoriteRef{ItemId: request.ItemId, ItemType: request.ItemType}
	)

	// both roots must resolve before either side is written
	var entityProbe model.FavoritableDocument
	if _, err = s.Load(ctx, entityDocId, &entityProbe); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.ErrNotFound
		}
		return err
	}
	var userProbe model.UserFavoritesDocument
	if _, err = s.Load(ctx, userDocId, &userProbe); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.ErrNotFound
		}
		return err
	}

	// entity side
	err = withConflictRetry(ctx, "sync favorite entity side", func() error {
		var doc model.FavoritableDocument
		version, err := s.Load(ctx, entityDocId, &doc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.ErrNotFound
			}
			return err
		}

		var changed bool
		if add {
			changed = doc.AddUser(requester.Id)
		} else {
			changed = doc.RemoveUser(requester.Id)
		}
		if !changed {
			return nil
		}

		return s.Save(ctx, entityDocId, &doc, version)
	})
	if err != nil {
		return err
	}

	// user side
	err = withConflictRetry(ctx, "sync favorite user side", func() error {
		var doc model.UserFavoritesDocument
		version, err := s.Load(ctx, userDocId, &doc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.ErrNotFound
			}
			return err
		}

		var changed bool
		if add {
			changed = doc.AddRef(ref)
		} else {
			changed = doc.RemoveRef(ref)
		}
		if !changed {
			return nil
		}

		return s.Save(ctx, userDocId, &doc, version)
	})
	if err != nil {
		return err
	}

	event := "favorite_added"
	if !add {
		event = "favorite_removed"
	}
	reportEvent(ctx, requester, request.ItemId, event, ref)

	return nil
}
