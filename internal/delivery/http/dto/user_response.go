package dto

import (
	"time"

	"jamco/internal/domain/user"
)

type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	ImageURL    *string    `json:"image_url"`
	Country     *string    `json:"country"`
	City        *string    `json:"city"`
	Region      *string    `json:"region"`
	Birthday    *string    `json:"birthday"`
	FieldOfWork *string    `json:"field_of_work"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

// PublicUserResponse is what other users see in search results and friend
// lists.
type PublicUserResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	ImageURL    *string `json:"image_url"`
	FieldOfWork *string `json:"field_of_work"`
}

type PrivacyResponse struct {
	UserID                 int64 `json:"user_id"`
	IsSearchable           bool  `json:"is_searchable"`
	ShareKanban            bool  `json:"share_kanban"`
	CoverLetterRequestable bool  `json:"cover_letter_requestable"`
}

func NewUserResponse(u user.User) UserResponse {
	res := UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		ImageURL:    u.ImageURL,
		Country:     u.Country,
		City:        u.City,
		Region:      u.Region,
		FieldOfWork: u.FieldOfWork,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
	if u.Birthday != nil {
		b := u.Birthday.Format(time.DateOnly)
		res.Birthday = &b
	}
	return res
}

func NewPublicUsers(users []user.User) []PublicUserResponse {
	out := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, PublicUserResponse{
			ID:          u.ID,
			Username:    u.Username,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			ImageURL:    u.ImageURL,
			FieldOfWork: u.FieldOfWork,
		})
	}
	return out
}

func NewPrivacyResponse(p user.Privacy) PrivacyResponse {
	return PrivacyResponse{
		UserID:                 p.UserID,
		IsSearchable:           p.IsSearchable,
		ShareKanban:            p.ShareKanban,
		CoverLetterRequestable: p.CoverLetterRequestable,
	}
}
