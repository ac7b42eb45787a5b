package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on a character card. Replies nest one level.
type Comment struct {
	ID                   int64      `json:"id"`
	CardID               uuid.UUID  `json:"cardId"`
	AuthorID             uuid.UUID  `json:"authorId"`
	AuthorName           string     `json:"authorName"`
	AuthorAvatar         string     `json:"authorAvatar,omitempty"`
	Content              string     `json:"content"`
	LikesCount           int        `json:"likesCount"`
	IsPinned             bool       `json:"isPinned"`
	IsLikedByCurrentUser bool       `json:"isLikedByCurrentUser"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
	PinnedAt             *time.Time `json:"pinnedAt,omitempty"`
	ParentCommentID      *int64     `json:"parentCommentId,omitempty"`
	Replies              []Comment  `json:"replies,omitempty"`
	RepliesCount         int        `json:"repliesCount"`
	CanPin               bool       `json:"canPin"`
	CanEdit              bool       `json:"canEdit"`
	CanDelete            bool       `json:"canDelete"`
}

// CommentPage is a page of top-level comments.
type CommentPage struct {
	Comments        []Comment `json:"comments"`
	TotalCount      int64     `json:"totalCount"`
	CurrentPageSize int       `json:"currentPageSize"`
	HasMore         bool      `json:"hasMore"`
	NextCursor      *int64    `json:"nextCursor,omitempty"`
}

// CommentInput is the request body for posting a comment or reply.
type CommentInput struct {
	CardID          uuid.UUID `json:"cardId"`
	Content         string    `json:"content"`
	ParentCommentID *int64    `json:"parentCommentId,omitempty"`
}
