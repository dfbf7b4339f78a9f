package model

import (
	"context"
	"fmt"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lesson is a single unit of course content.
type Lesson struct {
	Identifier

	SectionId uuid.UUID `json:"sectionId"`
	Name      string    `json:"name,omitempty"`

	Timestamps
}

func (l *Lesson) String() string {
	var out = l.Identifier.String()
	out += fmt.Sprintf(", sectionId: %v, ", l.SectionId)
	out += fmt.Sprintf("name: %v, ", l.Name)
	out += l.Timestamps.String()
	return out
}

type LessonBatch Batch[Lesson]

// Section groups lessons inside a course.
type Section struct {
	Identifier

	CourseId uuid.UUID `json:"courseId"`
	Name     string    `json:"name,omitempty"`
	Lessons  []Lesson  `json:"lessons,omitempty"`

	Timestamps
}

type SectionBatch Batch[Section]

// Course is a learnable entity, sections of lessons plus the rating summary
// used by listings.
type Course struct {
	Entity

	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
}

type CourseBatch Batch[Course]

// CourseStructure resolves the containment hierarchy of a course. The
// aggregate engine treats it as a read-only external lookup.
type CourseStructure interface {
	// SectionOf resolves the owning section of the lesson.
	SectionOf(ctx context.Context, lessonId uuid.UUID) (uuid.UUID, error)
	// LessonsOf lists every lesson id belonging to the section.
	LessonsOf(ctx context.Context, sectionId uuid.UUID) ([]uuid.UUID, error)
	// AllLessonsOf lists every lesson id in the course across all sections.
	AllLessonsOf(ctx context.Context, courseId uuid.UUID) ([]uuid.UUID, error)
}

// StaticCourseStructure is an in-memory CourseStructure built from course
// values, used by services that already hold the course and by tests.
type StaticCourseStructure struct {
	sectionByLesson  map[uuid.UUID]uuid.UUID
	lessonsBySection map[uuid.UUID][]uuid.UUID
	lessonsByCourse  map[uuid.UUID][]uuid.UUID
}

func NewStaticCourseStructure(courses ...Course) *StaticCourseStructure {
	s := &StaticCourseStructure{
		sectionByLesson:  map[uuid.UUID]uuid.UUID{},
		lessonsBySection: map[uuid.UUID][]uuid.UUID{},
		lessonsByCourse:  map[uuid.UUID][]uuid.UUID{},
	}

	for _, course := range courses {
		for _, section := range course.Sections {
			for _, lesson := range section.Lessons {
				s.sectionByLesson[lesson.Id] = section.Id
				s.lessonsBySection[section.Id] = append(s.lessonsBySection[section.Id], lesson.Id)
				s.lessonsByCourse[course.Id] = append(s.lessonsByCourse[course.Id], lesson.Id)
			}
		}
	}

	return s
}

func (s *StaticCourseStructure) SectionOf(_ context.Context, lessonId uuid.UUID) (uuid.UUID, error) {
	sectionId, ok := s.sectionByLesson[lessonId]
	if !ok {
		return uuid.Nil, ErrLessonNotFound
	}
	return sectionId, nil
}

func (s *StaticCourseStructure) LessonsOf(_ context.Context, sectionId uuid.UUID) ([]uuid.UUID, error) {
	lessons, ok := s.lessonsBySection[sectionId]
	if !ok {
		return nil, ErrSectionNotFound
	}
	return lessons, nil
}

func (s *StaticCourseStructure) AllLessonsOf(_ context.Context, courseId uuid.UUID) ([]uuid.UUID, error) {
	lessons, ok := s.lessonsByCourse[courseId]
	if !ok {
		return nil, ErrNotFound
	}
	return lessons, nil
}

// DatabaseCourseStructure resolves the hierarchy from the sections and
// lessons tables, connection from the context.
type DatabaseCourseStructure struct{}

func (s DatabaseCourseStructure) SectionOf(ctx context.Context, lessonId uuid.UUID) (uuid.UUID, error) {
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return uuid.Nil, ErrNoDatabase
	}

	q := `select l.section_id from lessons l where l.id = $1::uuid`

	var sectionId uuid.UUID
	err := db.QueryRow(ctx, q, lessonId).Scan(&sectionId)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, ErrLessonNotFound
		}
		return uuid.Nil, err
	}

	return sectionId, nil
}

func (s DatabaseCourseStructure) LessonsOf(ctx context.Context, sectionId uuid.UUID) ([]uuid.UUID, error) {
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	q := `select l.id from lessons l where l.section_id = $1::uuid order by l.sort_order`

	rows, err := db.Query(ctx, q, sectionId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		lessons = append(lessons, id)
	}

	if len(lessons) == 0 {
		return nil, ErrSectionNotFound
	}

	return lessons, nil
}

func (s DatabaseCourseStructure) AllLessonsOf(ctx context.Context, courseId uuid.UUID) ([]uuid.UUID, error) {
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	q := `select l.id from lessons l inner join sections s on l.section_id = s.id where s.course_id = $1::uuid order by s.sort_order, l.sort_order`

	rows, err := db.Query(ctx, q, courseId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		lessons = append(lessons, id)
	}

	if len(lessons) == 0 {
		return nil, ErrNotFound
	}

	return lessons, nil
}
