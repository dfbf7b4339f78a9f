package model

import (
	"fmt"

	"github.com/gofrs/uuid"
)

const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// UserVote is a single user's like or dislike of an entity.
// An entity holds at most one vote per user.
type UserVote struct {
	UserId uuid.UUID `json:"userId"`
	Vote   string    `json:"vote"` // like or dislike
}

func (v *UserVote) String() string {
	var out = fmt.Sprintf("userId: %v, ", v.UserId)
	out += fmt.Sprintf("vote: %v, ", v.Vote)
	return out
}

type UserVoteBatch Batch[UserVote]

// VoteTally Denormalized vote counters stored beside the entity.
type VoteTally struct {
	Likes      int32   `json:"likes"`
	Dislikes   int32   `json:"dislikes"`
	Percentage float64 `json:"percentage"`
}

// VotableDocument is the aggregate document folding per-user votes into
// the denormalized tally.
type VotableDocument struct {
	Identifier

	UserVotes []UserVote `json:"userVotes,omitempty"`

	VoteTally
}

// VotableDocumentId derives the document id for the votes aspect of an entity.
func VotableDocumentId(entityId uuid.UUID) uuid.UUID {
	return uuid.NewV5(entityId, "votes")
}

// Toggle applies the three-way vote state machine for the user:
// no prior vote appends, the same vote retracts, a different vote switches.
func (d *VotableDocument) Toggle(userId uuid.UUID, vote string) {
	for i := range d.UserVotes {
		if d.UserVotes[i].UserId != userId {
			continue
		}

		if d.UserVotes[i].Vote == vote {
			// same vote cancels the prior one
			d.UserVotes = append(d.UserVotes[:i], d.UserVotes[i+1:]...)
		} else {
			d.UserVotes[i].Vote = vote
		}
		d.Recompute()
		return
	}

	d.UserVotes = append(d.UserVotes, UserVote{UserId: userId, Vote: vote})
	d.Recompute()
}

// Recompute derives the tally from the full vote list.
func (d *VotableDocument) Recompute() {
	var likes, dislikes int32
	for i := range d.UserVotes {
		if d.UserVotes[i].Vote == VoteLike {
			likes++
		} else if d.UserVotes[i].Vote == VoteDislike {
			dislikes++
		}
	}

	d.Likes = likes
	d.Dislikes = dislikes
	if likes+dislikes == 0 {
		d.Percentage = 0
		return
	}
	d.Percentage = 100 * float64(likes) / float64(likes+dislikes)
}

// ValidVoteValue reports whether the value is an accepted vote kind.
func ValidVoteValue(vote string) bool {
	return vote == VoteLike || vote == VoteDislike
}
