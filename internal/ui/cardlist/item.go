package cardlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tavern/internal/format"
	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/theme"
)

// CardItem wraps a model.CharacterCard so it can be used in a bubbles/list.
type CardItem struct {
	Card model.CharacterCard
}

// FilterValue returns the string used for fuzzy filtering.
func (i CardItem) FilterValue() string { return i.Card.Name }

// Title returns the card name for the list.
func (i CardItem) Title() string { return i.Card.Name }

// Description returns a short summary line for the list.
func (i CardItem) Description() string {
	parts := []string{
		"by " + i.Card.CreatorUsername,
		format.Count(int64(i.Card.LikesCount)) + " likes",
	}
	if i.Card.ShortDescription != "" {
		parts = append(parts, i.Card.ShortDescription)
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering cards.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a card as a title line and a summary line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(CardItem)
	if !ok {
		return
	}
	card := ci.Card
	isSelected := index == m.Index()

	badge := theme.PublicBadgeStyle.Render("PUB")
	if !card.IsPublic {
		badge = theme.PrivateBadgeStyle.Render("PRV")
	}

	likes := "♡ " + format.Count(int64(card.LikesCount))
	if card.IsLikedByCurrentUser {
		likes = theme.LikedStyle.Render("♥ " + format.Count(int64(card.LikesCount)))
	}

	now := time.Now
	if d.now != nil {
		now = d.now
	}
	meta := theme.DimmedStyle.Render(fmt.Sprintf(
		"by %s  %s",
		card.CreatorUsername,
		format.Relative(card.CreatedAt, now()),
	))

	line := fmt.Sprintf("%s %s  %s\n  %s", badge, card.Name, likes, meta)
	if card.ShortDescription != "" {
		line += theme.DimmedStyle.Render("  " + truncate(card.ShortDescription, 60))
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
