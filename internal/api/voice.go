package api

import (
	"context"

	"github.com/nhle/tavern/internal/model"
)

// VoiceList returns the voices a card can be given.
func (c *Client) VoiceList(ctx context.Context) ([]model.Voice, error) {
	var voices []model.Voice
	if err := c.Get(ctx, "/voice/list", nil, &voices); err != nil {
		return nil, err
	}
	return voices, nil
}
