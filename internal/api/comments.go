package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/model"
)

// The comment controller is mounted under its own /api prefix on the
// server, so these paths repeat it relative to the base URL.
const commentsPath = "/api/comments"

// CommentQuery selects a page of comments on a card.
type CommentQuery struct {
	CardID    uuid.UUID
	SortBy    string // created_at or likes_count
	SortOrder string // asc or desc
	Page      int
	Size      int
	Cursor    *int64
}

func (q CommentQuery) values() url.Values {
	v := url.Values{}
	v.Set("cardId", q.CardID.String())
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Cursor != nil {
		v.Set("cursor", strconv.FormatInt(*q.Cursor, 10))
	}
	return v
}

// Comments returns a page of top-level comments.
func (c *Client) Comments(ctx context.Context, q CommentQuery) (*model.CommentPage, error) {
	var page model.CommentPage
	if err := c.Get(ctx, commentsPath, q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateComment posts a comment or a reply.
func (c *Client) CreateComment(ctx context.Context, in model.CommentInput) (*model.Comment, error) {
	var comment model.Comment
	if err := c.Post(ctx, commentsPath, in, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// CommentReplies returns the replies to a comment.
func (c *Client) CommentReplies(ctx context.Context, id int64) ([]model.Comment, error) {
	var replies []model.Comment
	if err := c.Get(ctx, commentPath(id, "replies"), nil, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// ToggleCommentLike likes or unlikes a comment.
func (c *Client) ToggleCommentLike(ctx context.Context, id int64) (*model.LikeResult, error) {
	var res model.LikeResult
	if err := c.Post(ctx, commentPath(id, "like"), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ToggleCommentPin pins or unpins a comment. Only the card author may.
func (c *Client) ToggleCommentPin(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := c.Post(ctx, commentPath(id, "pin"), nil, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.Delete(ctx, commentPath(id, ""), nil)
}

func commentPath(id int64, action string) string {
	p := commentsPath + "/" + strconv.FormatInt(id, 10)
	if action != "" {
		p += "/" + action
	}
	return p
}
