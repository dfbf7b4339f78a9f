package model

import "errors"

var (
	ErrNoRequester       = errors.New("no requester provided")
	ErrNoDatabase        = errors.New("no database provided")
	ErrNoStore           = errors.New("no document store provided")
	ErrNoCourseStructure = errors.New("no course structure provided")
	ErrNoRows            = errors.New("no rows returned")
	ErrNoPermission      = errors.New("no permission to perform this action")
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidRating     = errors.New("rating value out of range")
	ErrInvalidVote       = errors.New("invalid vote value")
	ErrNotEnrolled       = errors.New("user not enrolled in course")
	ErrLessonNotFound    = errors.New("lesson not found in course")
	ErrSectionNotFound   = errors.New("section not found in course")
	ErrIncompleteSection = errors.New("section has incomplete lessons")
	ErrConflict          = errors.New("conflicting concurrent update")
)
