package models

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Comment is one node of a comment tree. Replies holds direct children only,
// in the order the backend returned them.
type Comment struct {
	ID        int64      `json:"id"`
	BlogID    int64      `json:"blogId"`
	ParentID  *int64     `json:"parentId"`
	Username  string     `json:"username"`
	Content   string     `json:"content"`
	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt Timestamp  `json:"updatedAt"`
	Replies   []*Comment `json:"replies"`
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

func (c *Comment) Edited() bool {
	return !c.UpdatedAt.Equal(c.CreatedAt.Time)
}

type Blog struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Summary        string    `json:"summary,omitempty"`
	AuthorID       int64     `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
	IsPublished    bool      `json:"isPublished"`
	ImageURLs      []string  `json:"imageUrls"`
	LikeCount      int64     `json:"likeCount"`
	CommentCount   int64     `json:"commentCount"`
	ViewCount      int64     `json:"viewCount"`
}

// Page mirrors the backend's paginated response envelope.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	NumberOfElements int   `json:"numberOfElements"`
}

type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}
