package models

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
}

type JwtResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ProfileUpdate struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
}

// UserUpdate is the admin-side update of another account.
type UserUpdate struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Role      string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type BlogInput struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Content   string   `json:"content" validate:"required"`
	Summary   string   `json:"summary,omitempty"`
	ImageURLs []string `json:"imageUrls"`
}

// CreateCommentRequest is sent with a null parentId for top-level comments.
type CreateCommentRequest struct {
	BlogID   int64  `json:"blogId"`
	Content  string `json:"content"`
	ParentID *int64 `json:"parentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}
