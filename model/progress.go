package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// ProgressDocument tracks one user's completion state in one course.
// Created on enrollment, one document per (user, course) pair.
type ProgressDocument struct {
	Identifier

	UserId            uuid.UUID   `json:"userId"`
	CourseId          uuid.UUID   `json:"courseId"`
	CompletedLessons  []uuid.UUID `json:"completedLessons,omitempty"`
	CompletedSections []uuid.UUID `json:"completedSections,omitempty"`
	OverallProgress   float64     `json:"overallProgress"`
	LastActivity      time.Time   `json:"lastActivity,omitempty"`
}

func (d *ProgressDocument) String() string {
	var out = d.Identifier.String()
	out += fmt.Sprintf(", userId: %v, ", d.UserId)
	out += fmt.Sprintf("courseId: %v, ", d.CourseId)
	out += fmt.Sprintf("completedLessons: %v, ", len(d.CompletedLessons))
	out += fmt.Sprintf("completedSections: %v, ", len(d.CompletedSections))
	out += fmt.Sprintf("overallProgress: %v, ", d.OverallProgress)
	out += fmt.Sprintf("lastActivity: %v", d.LastActivity)
	return out
}

// ProgressDocumentId derives the document id for a (user, course) progress record.
func ProgressDocumentId(userId uuid.UUID, courseId uuid.UUID) uuid.UUID {
	return uuid.NewV5(userId, "progress:"+courseId.String())
}

// CompleteLesson inserts the lesson into the completed set.
// Completing an already completed lesson is a no-op, not an error.
func (d *ProgressDocument) CompleteLesson(lessonId uuid.UUID) bool {
	var changed bool
	d.CompletedLessons, changed = InsertId(d.CompletedLessons, lessonId)
	return changed
}

// CompleteSection inserts the section into the completed set. Sections are
// never removed again, there is no uncomplete path.
func (d *ProgressDocument) CompleteSection(sectionId uuid.UUID) bool {
	var changed bool
	d.CompletedSections, changed = InsertId(d.CompletedSections, sectionId)
	return changed
}

// HasLesson reports whether the lesson is completed.
func (d *ProgressDocument) HasLesson(lessonId uuid.UUID) bool {
	return ContainsId(d.CompletedLessons, lessonId)
}

// HasAllLessons reports whether every given lesson is completed.
func (d *ProgressDocument) HasAllLessons(lessonIds []uuid.UUID) bool {
	for _, id := range lessonIds {
		if !ContainsId(d.CompletedLessons, id) {
			return false
		}
	}
	return true
}

// RecomputeOverall derives the overall percentage from the completed set
// against the total lesson count of the course structure. The denominator
// covers all lessons of the course, not only lessons of completed sections.
func (d *ProgressDocument) RecomputeOverall(totalLessons int) {
	if totalLessons <= 0 {
		d.OverallProgress = 0
		return
	}
	d.OverallProgress = 100 * float64(len(d.CompletedLessons)) / float64(totalLessons)
}

// Snapshot returns the externally visible progress state.
func (d *ProgressDocument) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		UserId:            d.UserId,
		CourseId:          d.CourseId,
		CompletedLessons:  append([]uuid.UUID(nil), d.CompletedLessons...),
		CompletedSections: append([]uuid.UUID(nil), d.CompletedSections...),
		OverallProgress:   d.OverallProgress,
		LastActivity:      d.LastActivity,
	}
}

// ProgressSnapshot is the summary returned to callers after a progress update.
type ProgressSnapshot struct {
	UserId            uuid.UUID   `json:"userId"`
	CourseId          uuid.UUID   `json:"courseId"`
	CompletedLessons  []uuid.UUID `json:"completedLessons,omitempty"`
	CompletedSections []uuid.UUID `json:"completedSections,omitempty"`
	OverallProgress   float64     `json:"overallProgress"`
	LastActivity      time.Time   `json:"lastActivity,omitempty"`
}

type ProgressSnapshotBatch Batch[ProgressSnapshot]
