package aggregate

import (
	"context"
	"testing"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func newTestContext(s store.Store, structure model.CourseStructure) context.Context {
	ctx := context.Background()
	if s != nil {
		ctx = context.WithValue(ctx, glContext.Store, s)
	}
	if structure != nil {
		ctx = context.WithValue(ctx, glContext.CourseStructure, structure)
	}
	return ctx
}

func testUser(id string) *model.User {
	return &model.User{
		Entity: model.Entity{
			Identifier: model.Identifier{Id: uuid.FromStringOrNil(id)},
		},
	}
}

func newEntity(t *testing.T, ctx context.Context, id string) uuid.UUID {
	t.Helper()
	entityId := uuid.FromStringOrNil(id)
	require.NoError(t, ProvisionEntityAspects(ctx, entityId))
	return entityId
}

func TestMissingStore(t *testing.T) {
	ctx := newTestContext(nil, nil)
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	_, err := SubmitRating(ctx, requester, SubmitRatingRequest{
		EntityId: uuid.FromStringOrNil("684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5"),
		Value:    5,
	})
	require.ErrorIs(t, err, model.ErrNoStore)

	_, err = CastVote(ctx, requester, CastVoteRequest{
		EntityId: uuid.FromStringOrNil("684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5"),
		Vote:     model.VoteLike,
	})
	require.ErrorIs(t, err, model.ErrNoStore)
}

func TestMissingRequester(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), nil)
	entityId := uuid.FromStringOrNil("684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	tests := []struct {
		name string
		call func(requester *model.User) error
	}{
		{
			"rating",
			func(requester *model.User) error {
				_, err := SubmitRating(ctx, requester, SubmitRatingRequest{EntityId: entityId, Value: 5})
				return err
			},
		},
		{
			"vote",
			func(requester *model.User) error {
				_, err := CastVote(ctx, requester, CastVoteRequest{EntityId: entityId, Vote: model.VoteLike})
				return err
			},
		},
		{
			"favorite",
			func(requester *model.User) error {
				return AddFavorite(ctx, requester, FavoriteRequest{ItemId: entityId, ItemType: "asset"})
			},
		},
		{
			"progress",
			func(requester *model.User) error {
				_, err := CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: entityId, LessonId: entityId})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.call(nil), model.ErrNoRequester)
			require.ErrorIs(t, tt.call(&model.User{}), model.ErrNoRequester)
		})
	}
}
