package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	pub "gitlab.com/dirk.krummacker/contacts-web/pkg/model"
)

// ErrUnknownField is returned when a submitted form carries a key that is not
// part of the enumerated field set.
var ErrUnknownField = errors.New("unknown form field")

// ErrInvalidFavorite is returned when the favorite form is missing its value or
// the value is not a boolean.
var ErrInvalidFavorite = errors.New("invalid favorite value")

// Contact is the data structure for a person that we know.
// All fields with the exception of the Id field are optional.
type Contact struct {
	Id        string    `json:"id"                db:"id"`
	FirstName *string   `json:"first,omitempty"   db:"firstname"`
	LastName  *string   `json:"last,omitempty"    db:"lastname"`
	Twitter   *string   `json:"twitter,omitempty" db:"twitter"`
	Avatar    *string   `json:"avatar,omitempty"  db:"avatar"`
	Notes     *string   `json:"notes,omitempty"   db:"notes"`
	Favorite  bool      `json:"favorite"          db:"favorite"`
	CreatedAt time.Time `json:"createdAt"         db:"created_at"`
}

func (c Contact) First() string         { return deref(c.FirstName) }
func (c Contact) Last() string          { return deref(c.LastName) }
func (c Contact) TwitterHandle() string { return deref(c.Twitter) }
func (c Contact) AvatarURL() string     { return deref(c.Avatar) }
func (c Contact) NoteText() string      { return deref(c.Notes) }

// HasName reports whether the first or the last name is set to a non-empty value.
func (c Contact) HasName() bool {
	return c.First() != "" || c.Last() != ""
}

// FullName joins first and last name with a single space.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.First() + " " + c.Last())
}

// Label is the text shown for the contact in the sidebar: the full name or
// "No Name", followed by a star for favorites.
func (c Contact) Label() string {
	label := "No Name"
	if c.HasName() {
		label = c.FullName()
	}
	if c.Favorite {
		label += " ★"
	}
	return label
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ContactUpdate is a partial update of a contact. Nil fields were not
// submitted and are left untouched by the store.
type ContactUpdate struct {
	FirstName *string
	LastName  *string
	Twitter   *string
	Avatar    *string
	Notes     *string
	Favorite  *bool
}

// IsEmpty reports whether the update carries no field at all.
func (u ContactUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Twitter == nil &&
		u.Avatar == nil && u.Notes == nil && u.Favorite == nil
}

// ParseUpdate turns the submitted edit form into a ContactUpdate. Only the
// editor's fields are accepted. If a key is repeated, its last value wins.
// Empty values are kept as empty strings.
func ParseUpdate(form url.Values) (ContactUpdate, error) {
	var update ContactUpdate
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		switch key {
		case pub.FieldFirst:
			update.FirstName = &value
		case pub.FieldLast:
			update.LastName = &value
		case pub.FieldTwitter:
			update.Twitter = &value
		case pub.FieldAvatar:
			update.Avatar = &value
		case pub.FieldNotes:
			update.Notes = &value
		default:
			return ContactUpdate{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}
	return update, nil
}

// ParseFavorite reads the favorite form, which must consist of the single key
// "favorite" with a boolean value.
func ParseFavorite(form url.Values) (ContactUpdate, error) {
	for key := range form {
		if key != pub.FieldFavorite {
			return ContactUpdate{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}
	values := form[pub.FieldFavorite]
	if len(values) == 0 || values[len(values)-1] == "" {
		return ContactUpdate{}, fmt.Errorf("%w: missing", ErrInvalidFavorite)
	}
	raw := values[len(values)-1]
	favorite, err := strconv.ParseBool(raw)
	if err != nil {
		return ContactUpdate{}, fmt.Errorf("%w: %q", ErrInvalidFavorite, raw)
	}
	return ContactUpdate{Favorite: &favorite}, nil
}
