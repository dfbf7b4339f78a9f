package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Rating is a single user's star rating of an entity.
// An entity holds at most one rating per user, a repeat submission
// replaces the previous value in place.
type Rating struct {
	UserId  uuid.UUID `json:"userId"`
	Value   int32     `json:"value"` // 1 to 5 inclusive
	Comment string    `json:"comment,omitempty"`

	Timestamps
}

func (r *Rating) String() string {
	var out = fmt.Sprintf("userId: %v, ", r.UserId)
	out += fmt.Sprintf("value: %v, ", r.Value)
	out += fmt.Sprintf("comment: %v, ", r.Comment)
	out += r.Timestamps.String()
	return out
}

type RatingBatch Batch[Rating]

// RatingSummary Denormalized rating state stored beside the entity.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	RatingCount   int32   `json:"ratingCount"`
}

// RatableDocument is the aggregate document folding per-user ratings
// into the denormalized summary.
type RatableDocument struct {
	Identifier

	Ratings []Rating `json:"ratings,omitempty"`

	RatingSummary
}

// RatableDocumentId derives the document id for the ratings aspect of an entity.
func RatableDocumentId(entityId uuid.UUID) uuid.UUID {
	return uuid.NewV5(entityId, "ratings")
}

// Rate records the user's rating, replacing any prior rating by the same
// user, and recomputes the summary.
func (d *RatableDocument) Rate(userId uuid.UUID, value int32, comment string, now time.Time) {
	for i := range d.Ratings {
		if d.Ratings[i].UserId == userId {
			d.Ratings[i].Value = value
			d.Ratings[i].Comment = comment
			d.Ratings[i].Touch(now)
			d.Recompute()
			return
		}
	}

	rating := Rating{UserId: userId, Value: value, Comment: comment}
	rating.Touch(now)
	d.Ratings = append(d.Ratings, rating)
	d.Recompute()
}

// Recompute derives the summary from the full rating list. The mean is
// always recomputed from scratch so edits do not accumulate float drift.
func (d *RatableDocument) Recompute() {
	d.RatingCount = int32(len(d.Ratings))
	if d.RatingCount == 0 {
		d.AverageRating = 0
		return
	}

	var sum int64
	for i := range d.Ratings {
		sum += int64(d.Ratings[i].Value)
	}
	d.AverageRating = float64(sum) / float64(d.RatingCount)
}

// ValidRatingValue reports whether the value is within the accepted range.
func ValidRatingValue(value int32) bool {
	return value >= MinRatingValue && value <= MaxRatingValue
}
