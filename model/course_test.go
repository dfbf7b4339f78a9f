package model

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func TestStaticCourseStructure(t *testing.T) {
	courseId := uuid.FromStringOrNil("C0000000-0000-4000-8000-000000000001")
	sectionId := uuid.FromStringOrNil("5EC00000-0000-4000-8000-000000000001")
	lessonOne := uuid.FromStringOrNil("1E550000-0000-4000-8000-000000000001")
	lessonTwo := uuid.FromStringOrNil("1E550000-0000-4000-8000-000000000002")

	course := Course{}
	course.Id = courseId
	course.Sections = []Section{
		{
			Identifier: Identifier{Id: sectionId},
			CourseId:   courseId,
			Lessons: []Lesson{
				{Identifier: Identifier{Id: lessonOne}, SectionId: sectionId},
				{Identifier: Identifier{Id: lessonTwo}, SectionId: sectionId},
			},
		},
	}

	structure := NewStaticCourseStructure(course)
	ctx := context.Background()

	gotSection, err := structure.SectionOf(ctx, lessonOne)
	require.NoError(t, err)
	require.Equal(t, sectionId, gotSection)

	lessons, err := structure.LessonsOf(ctx, sectionId)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{lessonOne, lessonTwo}, lessons)

	all, err := structure.AllLessonsOf(ctx, courseId)
	require.NoError(t, err)
	require.Len(t, all, 2)

	unknown := uuid.FromStringOrNil("99999999-9999-4999-8999-999999999999")

	_, err = structure.SectionOf(ctx, unknown)
	require.ErrorIs(t, err, ErrLessonNotFound)

	_, err = structure.LessonsOf(ctx, unknown)
	require.ErrorIs(t, err, ErrSectionNotFound)

	_, err = structure.AllLessonsOf(ctx, unknown)
	require.ErrorIs(t, err, ErrNotFound)
}
