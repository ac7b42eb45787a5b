package carddetail

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/api"
	"github.com/nhle/tavern/internal/keys"
	"github.com/nhle/tavern/internal/model"
)

type fakeService struct {
	mu       sync.Mutex
	card     model.CharacterCard
	comments model.CommentPage
	posted   []model.CommentInput
	likes    int
}

func (f *fakeService) CardDetail(_ context.Context, id uuid.UUID) (*model.CharacterCard, error) {
	c := f.card
	c.ID = id
	return &c, nil
}

func (f *fakeService) Comments(_ context.Context, q api.CommentQuery) (*model.CommentPage, error) {
	p := f.comments
	return &p, nil
}

func (f *fakeService) CreateComment(_ context.Context, in model.CommentInput) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, in)
	return &model.Comment{ID: 1, CardID: in.CardID, Content: in.Content}, nil
}

func (f *fakeService) ToggleLike(_ context.Context, id uuid.UUID) (*model.LikeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes++
	return &model.LikeResult{IsLiked: true, LikesCount: 11}, nil
}

// run executes cmd, expanding batches, and feeds every message back.
func run(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(m, c)
		}
		return m
	}
	m, _ = m.Update(msg)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openCard(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(svc, keys.DefaultKeyMap(), 100, 60)
	cmd := m.Open(uuid.New())
	return run(m, cmd)
}

func TestOpenRendersCardAndComments(t *testing.T) {
	svc := &fakeService{
		card: model.CharacterCard{
			Name:            "Aria the Bard",
			CreatorUsername: "mira",
			IsPublic:        true,
			LikesCount:      10,
			GreetingMessage: "Well met, traveler.",
		},
		comments: model.CommentPage{
			TotalCount: 1,
			Comments: []model.Comment{{
				ID: 3, AuthorName: "bren", Content: "Lovely voice", IsPinned: true,
				Replies: []model.Comment{{ID: 4, AuthorName: "mira", Content: "Thanks!"}},
			}},
		},
	}

	m := openCard(t, svc)
	view := m.View()

	for _, want := range []string{"Aria the Bard", "Well met, traveler.", "Comments (1)", "Lovely voice", "Thanks!", "PINNED"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStaleDetailDropped(t *testing.T) {
	m := New(&fakeService{}, keys.DefaultKeyMap(), 80, 40)
	m.Open(uuid.New())

	m, _ = m.Update(DetailLoadedMsg{ID: uuid.New(), Card: &model.CharacterCard{Name: "Other"}})
	if m.card != nil {
		t.Fatal("detail for another card was applied")
	}
	if !m.loading {
		t.Fatal("still waiting for the requested card")
	}
}

func TestPostComment(t *testing.T) {
	svc := &fakeService{card: model.CharacterCard{Name: "Aria"}}
	m := openCard(t, svc)

	m, _ = m.Update(runes("c"))
	if !m.Typing() {
		t.Fatal("comment input not focused")
	}
	m, _ = m.Update(runes("hello"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Typing() {
		t.Fatal("input should close after submit")
	}
	posted, ok := cmd().(CommentPostedMsg)
	if !ok || posted.Err != nil {
		t.Fatalf("msg = %#v", posted)
	}
	if len(svc.posted) != 1 || svc.posted[0].Content != "hello" || svc.posted[0].CardID != m.CardID() {
		t.Fatalf("posted = %+v", svc.posted)
	}

	if _, cmd := m.Update(posted); cmd == nil {
		t.Fatal("comments should reload after posting")
	}
}

func TestEmptyCommentNotPosted(t *testing.T) {
	svc := &fakeService{card: model.CharacterCard{Name: "Aria"}}
	m := openCard(t, svc)

	m, _ = m.Update(runes("c"))
	m, _ = m.Update(runes("   "))
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("blank comment submitted")
	}
}

func TestLikeUpdatesCard(t *testing.T) {
	svc := &fakeService{card: model.CharacterCard{Name: "Aria", LikesCount: 10}}
	m := openCard(t, svc)

	m, cmd := m.Update(runes("l"))
	m = run(m, cmd)

	if !m.card.IsLikedByCurrentUser || m.card.LikesCount != 11 {
		t.Fatalf("card = %+v", m.card)
	}
	if _, cmd := m.Update(runes("l")); cmd != nil {
		t.Fatal("second like inside the throttle window should be dropped")
	}
	if svc.likes != 1 {
		t.Fatalf("likes = %d", svc.likes)
	}
}

func TestBack(t *testing.T) {
	m := openCard(t, &fakeService{card: model.CharacterCard{Name: "Aria"}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatal("esc should go back")
	}
}
