package handler

import "time"

// --- Form screens ---

// formView is the JSON rendering of a create/update screen.
type formView struct {
	Form     string            `json:"form"`
	State    string            `json:"state"`
	Readonly bool              `json:"readonly"`
	Values   any               `json:"values,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Message  string            `json:"message,omitempty"`
}

type postValues struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      bool   `json:"status"`
}

type userValues struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Type       string `json:"type"`
	Phone      string `json:"phone,omitempty"`
	DOB        string `json:"dob,omitempty"`
	Address    string `json:"address"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// --- Posts ---

type postListItem struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Status          int       `json:"status"`
	CreatedUserID   uint      `json:"created_user_id"`
	CreatedUserName string    `json:"created_user_name"`
	CreatedAt       time.Time `json:"created_at"`
}

type postDetailResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          int        `json:"status"`
	UserID          *uint      `json:"user_id,omitempty"`
	CreatedUserName string     `json:"created_user_name"`
	UpdatedUserName string     `json:"updated_user_name"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// --- Users ---

type userListItem struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	DOB             string    `json:"dob,omitempty"`
	CreatedUserName string    `json:"created_user_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type userDetailResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Type            string    `json:"type"`
	Role            string    `json:"role"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	DOB             string    `json:"dob,omitempty"`
	ProfileURL      string    `json:"profile_url"`
	CreatedUserName string    `json:"created_user_name"`
	UpdatedUserName string    `json:"updated_user_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// --- Lists ---

type pageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listResponse[T any] struct {
	Items []T      `json:"items"`
	Meta  pageMeta `json:"meta"`
}

// --- Auth ---

type authResponse struct {
	Token string              `json:"token,omitempty"`
	User  *userDetailResponse `json:"user,omitempty"`
}
