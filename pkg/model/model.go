package model

// Form field names accepted by the contact editor. Clients that submit the
// edit form must use exactly these keys; any other key is rejected.
const (
	FieldFirst   = "first"
	FieldLast    = "last"
	FieldTwitter = "twitter"
	FieldAvatar  = "avatar"
	FieldNotes   = "notes"
)

// FieldFavorite is the only key accepted by the favorite form.
const FieldFavorite = "favorite"

// EditFields lists the editor's form fields in the order the form shows them.
var EditFields = []string{FieldFirst, FieldLast, FieldTwitter, FieldAvatar, FieldNotes}
