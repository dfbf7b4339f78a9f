package model

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// FavoriteRef points at a favorited item from the user's side of the relation.
type FavoriteRef struct {
	ItemId   uuid.UUID `json:"itemId"`
	ItemType string    `json:"itemType"`
}

func (f *FavoriteRef) String() string {
	var out = fmt.Sprintf("itemId: %v, ", f.ItemId)
	out += fmt.Sprintf("itemType: %v, ", f.ItemType)
	return out
}

// FavoritableDocument is the entity side of the favorite relation, the set
// of users who favorited the entity.
type FavoritableDocument struct {
	Identifier

	Favorites []uuid.UUID `json:"favorites,omitempty"`
}

// FavoritableDocumentId derives the document id for the favorites aspect of an entity.
func FavoritableDocumentId(entityId uuid.UUID) uuid.UUID {
	return uuid.NewV5(entityId, "favorites")
}

// AddUser inserts the user into the favorite set.
// Inserting a present member is a no-op, not an error.
func (d *FavoritableDocument) AddUser(userId uuid.UUID) bool {
	var changed bool
	d.Favorites, changed = InsertId(d.Favorites, userId)
	return changed
}

// RemoveUser removes the user from the favorite set.
// Removing an absent member is a no-op, not an error.
func (d *FavoritableDocument) RemoveUser(userId uuid.UUID) bool {
	var changed bool
	d.Favorites, changed = RemoveId(d.Favorites, userId)
	return changed
}

// HasUser reports whether the user favorited the entity.
func (d *FavoritableDocument) HasUser(userId uuid.UUID) bool {
	return ContainsId(d.Favorites, userId)
}

// UserFavoritesDocument is the user side of the favorite relation, the set
// of items the user favorited.
type UserFavoritesDocument struct {
	Identifier

	Favorites []FavoriteRef `json:"favorites,omitempty"`
}

// UserFavoritesDocumentId derives the document id for the favorites aspect of a user.
func UserFavoritesDocumentId(userId uuid.UUID) uuid.UUID {
	return uuid.NewV5(userId, "userFavorites")
}

// AddRef inserts the item reference into the user's favorite set.
func (d *UserFavoritesDocument) AddRef(ref FavoriteRef) bool {
	if d.HasRef(ref) {
		return false
	}
	d.Favorites = append(d.Favorites, ref)
	return true
}

// RemoveRef removes the item reference from the user's favorite set.
func (d *UserFavoritesDocument) RemoveRef(ref FavoriteRef) bool {
	for i := range d.Favorites {
		if d.Favorites[i] == ref {
			d.Favorites = append(d.Favorites[:i], d.Favorites[i+1:]...)
			return true
		}
	}
	return false
}

// HasRef reports whether the item reference is in the user's favorite set.
func (d *UserFavoritesDocument) HasRef(ref FavoriteRef) bool {
	for i := range d.Favorites {
		if d.Favorites[i] == ref {
			return true
		}
	}
	return false
}
