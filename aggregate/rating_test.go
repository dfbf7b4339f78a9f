package aggregate

import (
	"testing"

	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func TestSubmitRatingAverage(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := newTestContext(s, nil)
	entityId := newEntity(t, ctx, "684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	raters := []struct {
		user  string
		value int32
	}{
		{"1578BA66-3334-496E-8BB8-1A0696B42C68", 4},
		{"2578BA66-3334-496E-8BB8-1A0696B42C68", 2},
		{"3578BA66-3334-496E-8BB8-1A0696B42C68", 5},
	}

	var summary *model.RatingSummary
	for _, r := range raters {
		var err error
		summary, err = SubmitRating(ctx, testUser(r.user), SubmitRatingRequest{
			EntityId: entityId,
			Value:    r.value,
			Comment:  "nice asset",
		})
		require.NoError(t, err)
	}

	require.EqualValues(t, 3, summary.RatingCount)
	require.InDelta(t, 3.6667, summary.AverageRating, 0.001)
}

func TestSubmitRatingReplacesPriorRating(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := newTestContext(s, nil)
	entityId := newEntity(t, ctx, "684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	summary, err := SubmitRating(ctx, requester, SubmitRatingRequest{EntityId: entityId, Value: 3})
	require.NoError(t, err)
	require.EqualValues(t, 1, summary.RatingCount)
	require.InDelta(t, 3.0, summary.AverageRating, 0.001)

	// a repeat submission replaces the rating in place, the count stays at one
	summary, err = SubmitRating(ctx, requester, SubmitRatingRequest{EntityId: entityId, Value: 5})
	require.NoError(t, err)
	require.EqualValues(t, 1, summary.RatingCount)
	require.InDelta(t, 5.0, summary.AverageRating, 0.001)

	var doc model.RatableDocument
	_, err = s.Load(ctx, model.RatableDocumentId(entityId), &doc)
	require.NoError(t, err)
	require.Len(t, doc.Ratings, 1)
	require.NotNil(t, doc.Ratings[0].UpdatedAt)
}

func TestSubmitRatingValidation(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := newTestContext(s, nil)
	entityId := newEntity(t, ctx, "684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	for _, value := range []int32{0, -1, 6, 100} {
		_, err := SubmitRating(ctx, requester, SubmitRatingRequest{EntityId: entityId, Value: value})
		require.ErrorIs(t, err, model.ErrInvalidRating)
	}

	_, err := SubmitRating(ctx, requester, SubmitRatingRequest{
		EntityId: uuid.FromStringOrNil("99999999-9999-4999-8999-999999999999"),
		Value:    4,
	})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestSubmitRatingConflictRetry(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := newTestContext(s, nil)
	entityId := newEntity(t, ctx, "684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	_, err := SubmitRating(ctx, testUser("1578BA66-3334-496E-8BB8-1A0696B42C68"), SubmitRatingRequest{EntityId: entityId, Value: 4})
	require.NoError(t, err)

	// fail the first save of the second rater, the engine must reload and
	// refold so the first rater's contribution is not lost
	conflicts := 1
	s.SaveHook = func(id uuid.UUID) error {
		if conflicts > 0 {
			conflicts--
			return store.ErrVersionMismatch
		}
		return nil
	}

	summary, err := SubmitRating(ctx, testUser("2578BA66-3334-496E-8BB8-1A0696B42C68"), SubmitRatingRequest{EntityId: entityId, Value: 2})
	require.NoError(t, err)
	require.EqualValues(t, 2, summary.RatingCount)
	require.InDelta(t, 3.0, summary.AverageRating, 0.001)
	require.Zero(t, conflicts)
}

func TestSubmitRatingConflictExhausted(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := newTestContext(s, nil)
	entityId := newEntity(t, ctx, "684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	s.SaveHook = func(id uuid.UUID) error {
		return store.ErrVersionMismatch
	}

	_, err := SubmitRating(ctx, testUser("1578BA66-3334-496E-8BB8-1A0696B42C68"), SubmitRatingRequest{EntityId: entityId, Value: 4})
	require.ErrorIs(t, err, model.ErrConflict)

	// nothing was committed
	s.SaveHook = nil
	var doc model.RatableDocument
	_, err = s.Load(ctx, model.RatableDocumentId(entityId), &doc)
	require.NoError(t, err)
	require.Empty(t, doc.Ratings)
	require.EqualValues(t, 0, doc.RatingCount)
}
