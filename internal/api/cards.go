package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/model"
)

// Market filters accepted by MarketCards.
const (
	MarketPublic  = "public"
	MarketPopular = "popular"
	MarketLatest  = "latest"
	MarketMine    = "my"
	MarketLiked   = "liked"
)

// MarketQuery selects a cursor page of the card market.
type MarketQuery struct {
	Filter  string
	Keyword string
	Cursor  string
	Size    int
}

func (q MarketQuery) values() url.Values {
	v := url.Values{}
	if q.Filter != "" {
		v.Set("filter", q.Filter)
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// PageQuery selects an offset page. Page is zero-based.
type PageQuery struct {
	Page int
	Size int
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// CardPage is an offset page of cards.
type CardPage = model.Page[model.CharacterCard]

// MarketCards returns a cursor page of the card market.
func (c *Client) MarketCards(ctx context.Context, q MarketQuery) (*model.CursorPage[model.CharacterCard], error) {
	var page model.CursorPage[model.CharacterCard]
	if err := c.Get(ctx, "/character-cards/market", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PublicCards lists public cards.
func (c *Client) PublicCards(ctx context.Context, q PageQuery) (*CardPage, error) {
	return c.cardPage(ctx, "/character-cards/public", q.values())
}

// PopularCards lists cards ordered by likes.
func (c *Client) PopularCards(ctx context.Context, q PageQuery) (*CardPage, error) {
	return c.cardPage(ctx, "/character-cards/popular", q.values())
}

// LatestCards lists the newest cards.
func (c *Client) LatestCards(ctx context.Context, q PageQuery) (*CardPage, error) {
	return c.cardPage(ctx, "/character-cards/latest", q.values())
}

// MyCards lists cards created by the signed-in user.
func (c *Client) MyCards(ctx context.Context, q PageQuery) (*CardPage, error) {
	return c.cardPage(ctx, "/character-cards/my", q.values())
}

// LikedCards lists cards the signed-in user has liked.
func (c *Client) LikedCards(ctx context.Context, q PageQuery) (*CardPage, error) {
	return c.cardPage(ctx, "/character-cards/liked", q.values())
}

// UserCards lists public cards of another user.
func (c *Client) UserCards(ctx context.Context, userID uuid.UUID, q PageQuery) (*CardPage, error) {
	return c.cardPage(ctx, "/character-cards/user/"+userID.String(), q.values())
}

// SearchCards finds cards by keyword.
func (c *Client) SearchCards(ctx context.Context, keyword string, q PageQuery) (*CardPage, error) {
	v := q.values()
	v.Set("keyword", keyword)
	return c.cardPage(ctx, "/character-cards/search", v)
}

func (c *Client) cardPage(ctx context.Context, path string, v url.Values) (*CardPage, error) {
	var page CardPage
	if err := c.Get(ctx, path, v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CardDetail fetches one card.
func (c *Client) CardDetail(ctx context.Context, id uuid.UUID) (*model.CharacterCard, error) {
	var card model.CharacterCard
	if err := c.Get(ctx, "/character-cards/"+id.String(), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateCard publishes a new card.
func (c *Client) CreateCard(ctx context.Context, in model.CardInput) (*model.CharacterCard, error) {
	var card model.CharacterCard
	if err := c.Post(ctx, "/character-cards", in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard replaces the editable fields of a card.
func (c *Client) UpdateCard(ctx context.Context, id uuid.UUID, in model.CardInput) (*model.CharacterCard, error) {
	var card model.CharacterCard
	if err := c.Put(ctx, "/character-cards/"+id.String(), in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard removes a card owned by the signed-in user.
func (c *Client) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return c.Delete(ctx, "/character-cards/"+id.String(), nil)
}

// ToggleLike likes or unlikes a card.
func (c *Client) ToggleLike(ctx context.Context, id uuid.UUID) (*model.LikeResult, error) {
	var res model.LikeResult
	if err := c.Post(ctx, "/character-cards/"+id.String()+"/like", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
