package flashcard

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDeckNotFound = errors.New("flashcard deck not found")
	ErrCardNotFound = errors.New("flashcard not found")
)

type (
	Repository interface {
		CreateDeck(ctx context.Context, d Deck) (Deck, error)
		// QueryDecks returns the user's decks with their CardCount set.
		QueryDecks(ctx context.Context, userID int) ([]Deck, error)
		GetDeckByID(ctx context.Context, id int) (Deck, error)
		UpdateDeck(ctx context.Context, d Deck) (Deck, error)
		// DeleteDeck deletes the deck and its cards.
		DeleteDeck(ctx context.Context, id int) error

		CreateCard(ctx context.Context, c Card) (Card, error)
		QueryCards(ctx context.Context, deckID int) ([]Card, error)
		GetCardByID(ctx context.Context, id int) (Card, error)
		UpdateCard(ctx context.Context, c Card) (Card, error)
		DeleteCard(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateDeck(ctx context.Context, userID int, nd NewDeck) (Deck, error) {
	return svc.repo.CreateDeck(ctx, Deck{
		UserID:      userID,
		Name:        nd.Name,
		Description: nd.Description,
		DueDate:     nd.DueDate,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) QueryDecks(ctx context.Context, userID int) ([]Deck, error) {
	return svc.repo.QueryDecks(ctx, userID)
}

func (svc *Service) GetDeckByID(ctx context.Context, id int) (Deck, error) {
	return svc.repo.GetDeckByID(ctx, id)
}

func (svc *Service) UpdateDeck(ctx context.Context, orig Deck, ud UpdateDeck) (Deck, error) {
	return svc.repo.UpdateDeck(ctx, ud.apply(orig))
}

func (svc *Service) DeleteDeck(ctx context.Context, id int) error {
	return svc.repo.DeleteDeck(ctx, id)
}

func (svc *Service) CreateCard(ctx context.Context, deck Deck, nc NewCard) (Card, error) {
	return svc.repo.CreateCard(ctx, Card{
		DeckID:    deck.ID,
		Front:     nc.Front,
		Back:      nc.Back,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryCards(ctx context.Context, deck Deck) ([]Card, error) {
	return svc.repo.QueryCards(ctx, deck.ID)
}

// GetCard fetches a card of deck; cards of other decks are reported as not found.
func (svc *Service) GetCard(ctx context.Context, deck Deck, cardID int) (Card, error) {
	c, err := svc.repo.GetCardByID(ctx, cardID)
	if err != nil {
		return Card{}, err
	}
	if c.DeckID != deck.ID {
		return Card{}, ErrCardNotFound
	}
	return c, nil
}

func (svc *Service) UpdateCard(ctx context.Context, orig Card, uc UpdateCard) (Card, error) {
	return svc.repo.UpdateCard(ctx, uc.apply(orig))
}

func (svc *Service) DeleteCard(ctx context.Context, id int) error {
	return svc.repo.DeleteCard(ctx, id)
}
