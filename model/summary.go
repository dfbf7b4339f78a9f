package model

import (
	"context"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"dev.modforge.gg/platform/modforge-shared/store"
)

// attachAggregates fills the denormalized summary fields of the entity from
// the document store when one is configured. Missing aspect documents are
// left nil, listings tolerate entities created before aggregates existed.
func attachAggregates(ctx context.Context, e *Entity) {
	s, ok := ctx.Value(glContext.Store).(store.Store)
	if !ok || s == nil {
		return
	}

	var ratable RatableDocument
	if _, err := s.Load(ctx, RatableDocumentId(e.Id), &ratable); err == nil {
		summary := ratable.RatingSummary
		e.Rating = &summary
	}

	var votable VotableDocument
	if _, err := s.Load(ctx, VotableDocumentId(e.Id), &votable); err == nil {
		tally := votable.VoteTally
		e.Tally = &tally
	}

	var favoritable FavoritableDocument
	if _, err := s.Load(ctx, FavoritableDocumentId(e.Id), &favoritable); err == nil {
		count := int32(len(favoritable.Favorites))
		e.Favorites = &count
	}
}
