package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"jamco/internal/domain"
	"jamco/internal/domain/user"
)

const birthdayLayout = "2006-01-02"

type userSetter func(u *user.User, raw json.RawMessage) error

type privacySetter func(p *user.Privacy, raw json.RawMessage) error

// userFields lists every profile field a client may change.
var userFields = map[string]userSetter{
	"first_name":    requiredString(func(u *user.User) *string { return &u.FirstName }),
	"last_name":     requiredString(func(u *user.User) *string { return &u.LastName }),
	"image_url":     optionalString(func(u *user.User) **string { return &u.ImageURL }),
	"country":       optionalString(func(u *user.User) **string { return &u.Country }),
	"city":          optionalString(func(u *user.User) **string { return &u.City }),
	"region":        optionalString(func(u *user.User) **string { return &u.Region }),
	"field_of_work": optionalString(func(u *user.User) **string { return &u.FieldOfWork }),
	"birthday":      setBirthday,
}

var privacyFields = map[string]privacySetter{
	"is_searchable":            privacyFlag(func(p *user.Privacy) *bool { return &p.IsSearchable }),
	"share_kanban":             privacyFlag(func(p *user.Privacy) *bool { return &p.ShareKanban }),
	"cover_letter_requestable": privacyFlag(func(p *user.Privacy) *bool { return &p.CoverLetterRequestable }),
}

func requiredString(field func(u *user.User) *string) userSetter {
	return func(u *user.User, raw json.RawMessage) error {
		var v string
		if isNull(raw) || json.Unmarshal(raw, &v) != nil {
			return errInvalidValue
		}
		*field(u) = v
		return nil
	}
}

func optionalString(field func(u *user.User) **string) userSetter {
	return func(u *user.User, raw json.RawMessage) error {
		if isNull(raw) {
			*field(u) = nil
			return nil
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return errInvalidValue
		}
		*field(u) = &v
		return nil
	}
}

func setBirthday(u *user.User, raw json.RawMessage) error {
	if isNull(raw) {
		u.Birthday = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return errInvalidValue
	}
	t, err := time.Parse(birthdayLayout, v)
	if err != nil {
		return errInvalidValue
	}
	u.Birthday = &t
	return nil
}

func privacyFlag(field func(p *user.Privacy) *bool) privacySetter {
	return func(p *user.Privacy, raw json.RawMessage) error {
		var v bool
		if isNull(raw) || json.Unmarshal(raw, &v) != nil {
			return errInvalidValue
		}
		*field(p) = v
		return nil
	}
}

var errInvalidValue = fmt.Errorf("%w: invalid value", domain.ErrValidation)

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
