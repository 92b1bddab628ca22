package models

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Role     Role    `json:"role"`
	Avatar   *string `json:"avatar"`
	// Password travels outbound only; reads never populate it.
	Password string `json:"password,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type Car struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResult is the server's paginated envelope: Count is the total number
// of rows matching the search text, not the number returned for the page.
type ListResult[T any] struct {
	Count int `json:"count"`
	Rows  []T `json:"rows"`
}

type LoginResponse struct {
	User    *User  `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type MutationResponse struct {
	User    *User  `json:"user,omitempty"`
	Message string `json:"message"`
}

// Resource names as they appear in API paths and cache keys.
const (
	ResourceUsers = "users"
	ResourceCars  = "cars"
)
