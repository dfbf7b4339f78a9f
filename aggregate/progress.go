package aggregate

import (
	"context"
	"errors"
	"time"

	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
)

type EnrollRequest struct {
	CourseId uuid.UUID `json:"courseId" validate:"required"`
}

type CompleteLessonRequest struct {
	CourseId uuid.UUID `json:"courseId" validate:"required"`
	LessonId uuid.UUID `json:"lessonId" validate:"required"`
}

type MarkSectionRequest struct {
	CourseId  uuid.UUID `json:"courseId" validate:"required"`
	SectionId uuid.UUID `json:"sectionId" validate:"required"`
}

// Enroll creates the progress record for the requester and course. Lesson
// completion requires it to exist. Enrolling twice is a no-op returning the
// current state.
func Enroll(ctx context.Context, requester *model.User, request EnrollRequest) (*model.ProgressSnapshot, error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, model.ErrNoRequester
	}

	s, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docId := model.ProgressDocumentId(requester.Id, request.CourseId)
	doc := model.ProgressDocument{
		Identifier:   model.Identifier{Id: docId},
		UserId:       requester.Id,
		CourseId:     request.CourseId,
		LastActivity: time.Now().UTC(),
	}

	err = s.Insert(ctx, docId, &doc)
	if errors.Is(err, store.ErrAlreadyExists) {
		var existing model.ProgressDocument
		if _, err = s.Load(ctx, docId, &existing); err != nil {
			return nil, err
		}
		snapshot := existing.Snapshot()
		return &snapshot, nil
	}
	if err != nil {
		return nil, err
	}

	reportEvent(ctx, requester, request.CourseId, "course_enrolled", nil)

	snapshot := doc.Snapshot()
	return &snapshot, nil
}

// CompleteLesson marks the lesson completed for the requester and
// propagates through the hierarchy: the owning section is marked complete
// once every lesson in it is done, and the overall percentage is recomputed
// over all lessons in the course. Completing the same lesson twice is a
// no-op.
func CompleteLesson(ctx context.Context, requester *model.User, request CompleteLessonRequest) (*model.ProgressSnapshot, error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, model.ErrNoRequester
	}

	s, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	structure, err := structureFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sectionId, err := structure.SectionOf(ctx, request.LessonId)
	if err != nil {
		return nil, err
	}

	courseLessons, err := structure.AllLessonsOf(ctx, request.CourseId)
	if err != nil {
		return nil, err
	}
	if !model.ContainsId(courseLessons, request.LessonId) {
		// the lesson resolves to a section of some other course
		return nil, model.ErrLessonNotFound
	}

	sectionLessons, err := structure.LessonsOf(ctx, sectionId)
	if err != nil {
		return nil, err
	}

	var (
		docId    = model.ProgressDocumentId(requester.Id, request.CourseId)
		snapshot model.ProgressSnapshot
	)

	err = withConflictRetry(ctx, "complete lesson", func() error {
		var doc model.ProgressDocument
		version, err := s.Load(ctx, docId, &doc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.ErrNotEnrolled
			}
			return err
		}

		doc.CompleteLesson(request.LessonId)
		if doc.HasAllLessons(sectionLessons) {
			doc.CompleteSection(sectionId)
		}
		doc.RecomputeOverall(len(courseLessons))
		doc.LastActivity = time.Now().UTC()

		if err = s.Save(ctx, docId, &doc, version); err != nil {
			return err
		}

		snapshot = doc.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	reportEvent(ctx, requester, request.CourseId, "lesson_completed", snapshot)

	return &snapshot, nil
}

// MarkSectionComplete is the explicit variant that validates completeness
// instead of inferring it: it fails unless every lesson of the section is
// already completed. The overall percentage is untouched, progress is
// lesson-driven only.
func MarkSectionComplete(ctx context.Context, requester *model.User, request MarkSectionRequest) (*model.ProgressSnapshot, error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, model.ErrNoRequester
	}

	s, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	structure, err := structureFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sectionLessons, err := structure.LessonsOf(ctx, request.SectionId)
	if err != nil {
		return nil, err
	}

	courseLessons, err := structure.AllLessonsOf(ctx, request.CourseId)
	if err != nil {
		return nil, err
	}
	for _, lessonId := range sectionLessons {
		if !model.ContainsId(courseLessons, lessonId) {
			return nil, model.ErrSectionNotFound
		}
	}

	var (
		docId    = model.ProgressDocumentId(requester.Id, request.CourseId)
		snapshot model.ProgressSnapshot
	)

	err = withConflictRetry(ctx, "mark section complete", func() error {
		var doc model.ProgressDocument
		version, err := s.Load(ctx, docId, &doc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.ErrNotEnrolled
			}
			return err
		}

		if !doc.HasAllLessons(sectionLessons) {
			return model.ErrIncompleteSection
		}

		doc.CompleteSection(request.SectionId)
		doc.LastActivity = time.Now().UTC()

		if err = s.Save(ctx, docId, &doc, version); err != nil {
			return err
		}

		snapshot = doc.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	reportEvent(ctx, requester, request.CourseId, "section_completed", snapshot)

	return &snapshot, nil
}

// GetProgress returns the current progress state without mutating it.
func GetProgress(ctx context.Context, requester *model.User, request EnrollRequest) (*model.ProgressSnapshot, error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, model.ErrNoRequester
	}

	s, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var doc model.ProgressDocument
	if _, err = s.Load(ctx, model.ProgressDocumentId(requester.Id, request.CourseId), &doc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, model.ErrNotEnrolled
		}
		return nil, err
	}

	snapshot := doc.Snapshot()
	return &snapshot, nil
}
