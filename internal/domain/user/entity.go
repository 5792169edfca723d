package user

import "time"

type User struct {
	ID          int64
	GoogleID    string
	Username    string
	FirstName   string
	LastName    string
	Email       string
	ImageURL    *string
	Country     *string
	City        *string
	Region      *string
	Birthday    *time.Time
	FieldOfWork *string
	LastLogin   *time.Time
	CreatedAt   time.Time
}

// Privacy flags are created with the user and all default to true.
type Privacy struct {
	UserID                 int64
	IsSearchable           bool
	ShareKanban            bool
	CoverLetterRequestable bool
}

func DefaultPrivacy(userID int64) Privacy {
	return Privacy{
		UserID:                 userID,
		IsSearchable:           true,
		ShareKanban:            true,
		CoverLetterRequestable: true,
	}
}
