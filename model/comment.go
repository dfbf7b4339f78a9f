package model

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// Comment is a user comment attached to an entity.
type Comment struct {
	EntityTrait

	UserId uuid.UUID `json:"userId"`
	Text   string    `json:"text"`

	Timestamps
}

func (c *Comment) String() string {
	var out = c.EntityTrait.String()
	out += fmt.Sprintf("userId: %v, ", c.UserId)
	out += fmt.Sprintf("text: %v, ", c.Text)
	out += c.Timestamps.String()
	return out
}

type CommentBatch Batch[Comment]
