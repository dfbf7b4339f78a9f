package aggregate

import (
	"testing"
	"time"

	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

var (
	courseId   = uuid.FromStringOrNil("C0000000-0000-4000-8000-000000000001")
	sectionOne = uuid.FromStringOrNil("5EC00000-0000-4000-8000-000000000001")
	sectionTwo = uuid.FromStringOrNil("5EC00000-0000-4000-8000-000000000002")
	lessonOne  = uuid.FromStringOrNil("1E550000-0000-4000-8000-000000000001")
	lessonTwo  = uuid.FromStringOrNil("1E550000-0000-4000-8000-000000000002")
	lessonTri  = uuid.FromStringOrNil("1E550000-0000-4000-8000-000000000003")
	lessonQuad = uuid.FromStringOrNil("1E550000-0000-4000-8000-000000000004")
)

// two sections of two lessons each, four lessons total
func testCourse() model.Course {
	course := model.Course{}
	course.Id = courseId
	course.Sections = []model.Section{
		{
			Identifier: model.Identifier{Id: sectionOne},
			CourseId:   courseId,
			Lessons: []model.Lesson{
				{Identifier: model.Identifier{Id: lessonOne}, SectionId: sectionOne},
				{Identifier: model.Identifier{Id: lessonTwo}, SectionId: sectionOne},
			},
		},
		{
			Identifier: model.Identifier{Id: sectionTwo},
			CourseId:   courseId,
			Lessons: []model.Lesson{
				{Identifier: model.Identifier{Id: lessonTri}, SectionId: sectionTwo},
				{Identifier: model.Identifier{Id: lessonQuad}, SectionId: sectionTwo},
			},
		},
	}
	return course
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse()))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	_, err := CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonOne})
	require.ErrorIs(t, err, model.ErrNotEnrolled)
}

func TestEnrollIsIdempotent(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse()))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	snapshot, err := Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)
	require.Equal(t, courseId, snapshot.CourseId)
	require.Zero(t, snapshot.OverallProgress)

	_, err = CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonOne})
	require.NoError(t, err)

	// a second enrollment keeps the accumulated progress
	snapshot, err = Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)
	require.Len(t, snapshot.CompletedLessons, 1)
	require.InDelta(t, 25.0, snapshot.OverallProgress, 0.001)
}

func TestSectionCompletionPropagation(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse()))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	_, err := Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)

	snapshot, err := CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonOne})
	require.NoError(t, err)
	require.Empty(t, snapshot.CompletedSections)

	snapshot, err = CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonTwo})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{sectionOne}, snapshot.CompletedSections)
	require.InDelta(t, 50.0, snapshot.OverallProgress, 0.001)
}

func TestOverallProgressMonotonic(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse()))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	_, err := Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)

	// the denominator is every lesson in the course, so each completed
	// lesson moves the percentage even before its section is done, there
	// is no jump when a section closes
	lessons := []uuid.UUID{lessonOne, lessonTri, lessonTwo, lessonQuad}
	var previous float64
	for i, lessonId := range lessons {
		snapshot, err := CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonId})
		require.NoError(t, err)
		require.InDelta(t, 100.0*float64(i+1)/4.0, snapshot.OverallProgress, 0.001)
		require.GreaterOrEqual(t, snapshot.OverallProgress, previous)
		previous = snapshot.OverallProgress
	}

	// completing an already completed lesson changes nothing
	snapshot, err := CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonOne})
	require.NoError(t, err)
	require.Len(t, snapshot.CompletedLessons, 4)
	require.InDelta(t, 100.0, snapshot.OverallProgress, 0.001)
	require.ElementsMatch(t, []uuid.UUID{sectionOne, sectionTwo}, snapshot.CompletedSections)
}

func TestCompleteLessonUnknownLesson(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse()))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	_, err := Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)

	_, err = CompleteLesson(ctx, requester, CompleteLessonRequest{
		CourseId: courseId,
		LessonId: uuid.FromStringOrNil("99999999-9999-4999-8999-999999999999"),
	})
	require.ErrorIs(t, err, model.ErrLessonNotFound)
}

func TestCompleteLessonFromAnotherCourse(t *testing.T) {
	other := model.Course{}
	other.Id = uuid.FromStringOrNil("C0000000-0000-4000-8000-000000000002")
	otherSection := uuid.FromStringOrNil("5EC00000-0000-4000-8000-000000000099")
	otherLesson := uuid.FromStringOrNil("1E550000-0000-4000-8000-000000000099")
	other.Sections = []model.Section{
		{
			Identifier: model.Identifier{Id: otherSection},
			CourseId:   other.Id,
			Lessons:    []model.Lesson{{Identifier: model.Identifier{Id: otherLesson}, SectionId: otherSection}},
		},
	}

	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse(), other))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	_, err := Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)

	// the lesson resolves, but not inside the requested course
	_, err = CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: otherLesson})
	require.ErrorIs(t, err, model.ErrLessonNotFound)
}

func TestMarkSectionCompleteValidates(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse()))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	_, err := Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)

	_, err = MarkSectionComplete(ctx, requester, MarkSectionRequest{CourseId: courseId, SectionId: sectionOne})
	require.ErrorIs(t, err, model.ErrIncompleteSection)

	_, err = CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonOne})
	require.NoError(t, err)
	_, err = MarkSectionComplete(ctx, requester, MarkSectionRequest{CourseId: courseId, SectionId: sectionOne})
	require.ErrorIs(t, err, model.ErrIncompleteSection)

	before, err := CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonTwo})
	require.NoError(t, err)

	snapshot, err := MarkSectionComplete(ctx, requester, MarkSectionRequest{CourseId: courseId, SectionId: sectionOne})
	require.NoError(t, err)
	require.Contains(t, snapshot.CompletedSections, sectionOne)
	// marking a section does not move the percentage, progress is lesson-driven
	require.InDelta(t, before.OverallProgress, snapshot.OverallProgress, 0.001)

	_, err = MarkSectionComplete(ctx, requester, MarkSectionRequest{
		CourseId:  courseId,
		SectionId: uuid.FromStringOrNil("99999999-9999-4999-8999-999999999999"),
	})
	require.ErrorIs(t, err, model.ErrSectionNotFound)
}

func TestCompleteLessonUpdatesLastActivity(t *testing.T) {
	ctx := newTestContext(store.NewMemoryStore(), model.NewStaticCourseStructure(testCourse()))
	requester := testUser("1578BA66-3334-496E-8BB8-1A0696B42C68")

	enrolled, err := Enroll(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	snapshot, err := CompleteLesson(ctx, requester, CompleteLessonRequest{CourseId: courseId, LessonId: lessonOne})
	require.NoError(t, err)
	require.True(t, snapshot.LastActivity.After(enrolled.LastActivity))

	got, err := GetProgress(ctx, requester, EnrollRequest{CourseId: courseId})
	require.NoError(t, err)
	require.Equal(t, snapshot.OverallProgress, got.OverallProgress)
}
