// Package aggregate keeps denormalized summary state consistent as users
// concurrently contribute ratings, votes, favorites and lesson completions.
// Every operation is a load-fold-save cycle against the versioned document
// store, optimistic version checks turn lost-update races into bounded
// retries.
package aggregate

import (
	"context"
	"errors"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
)

// maxConflictRetries bounds the reload-and-refold attempts after a lost
// version race before the operation surfaces ErrConflict.
const maxConflictRetries = 5

func storeFromContext(ctx context.Context) (store.Store, error) {
	s, ok := ctx.Value(glContext.Store).(store.Store)
	if !ok || s == nil {
		return nil, model.ErrNoStore
	}
	return s, nil
}

func structureFromContext(ctx context.Context) (model.CourseStructure, error) {
	c, ok := ctx.Value(glContext.CourseStructure).(model.CourseStructure)
	if !ok || c == nil {
		return nil, model.ErrNoCourseStructure
	}
	return c, nil
}

// withConflictRetry runs one read-modify-write cycle, reloading and
// refolding on a version mismatch. The fold is pure until the save commits,
// so an abandoned cycle leaves no trace in stored state.
func withConflictRetry(ctx context.Context, op string, cycle func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		err = cycle()
		if !errors.Is(err, store.ErrVersionMismatch) {
			return err
		}

		logrus.Debugf("%s lost a version race, attempt %d of %d", op, attempt, maxConflictRetries)
	}
	return model.ErrConflict
}

// reportEvent writes the aggregate mutation to the analytics sink when one
// is configured. Reporting never fails the operation itself.
func reportEvent(ctx context.Context, requester *model.User, entityId uuid.UUID, event string, payload any) {
	if ctx.Value(glContext.Clickhouse) == nil {
		return
	}

	request := model.AggregateEventRequest{
		EntityId: entityId,
		UserId:   requester.Id,
		Event:    event,
		Payload:  payload,
	}
	if err := model.ReportAggregateEvent(ctx, request); err != nil {
		logrus.Warnf("failed to report %s event: %v", event, err)
	}
}

// ProvisionEntityAspects creates the empty aggregate documents for a newly
// created entity. Aspect documents are provisioned with the entity, so a
// missing document later means a missing entity.
func ProvisionEntityAspects(ctx context.Context, entityId uuid.UUID) error {
	s, err := storeFromContext(ctx)
	if err != nil {
		return err
	}

	ratable := model.RatableDocument{Identifier: model.Identifier{Id: model.RatableDocumentId(entityId)}}
	if err = s.Insert(ctx, ratable.Id, &ratable); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return err
	}

	votable := model.VotableDocument{Identifier: model.Identifier{Id: model.VotableDocumentId(entityId)}}
	if err = s.Insert(ctx, votable.Id, &votable); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return err
	}

	favoritable := model.FavoritableDocument{Identifier: model.Identifier{Id: model.FavoritableDocumentId(entityId)}}
	if err = s.Insert(ctx, favoritable.Id, &favoritable); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return err
	}

	return nil
}

// ProvisionUserAspects creates the empty aggregate documents for a newly
// registered user.
func ProvisionUserAspects(ctx context.Context, userId uuid.UUID) error {
	s, err := storeFromContext(ctx)
	if err != nil {
		return err
	}

	favorites := model.UserFavoritesDocument{Identifier: model.Identifier{Id: model.UserFavoritesDocumentId(userId)}}
	if err = s.Insert(ctx, favorites.Id, &favorites); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return err
	}

	return nil
}
