package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/protimer/core/flashcard"
)

type flashcardRepository struct {
	db *DB
}

var _ flashcard.Repository = (*flashcardRepository)(nil) // interface compliance check

func NewFlashcardRepository(db *DB) flashcard.Repository {
	return &flashcardRepository{db: db}
}

// withCardCount must be called with the lock held.
func (repo *flashcardRepository) withCardCount(d flashcard.Deck) flashcard.Deck {
	d.CardCount = 0
	for _, c := range repo.db.cards {
		if c.DeckID == d.ID {
			d.CardCount++
		}
	}
	return d
}

func (repo *flashcardRepository) CreateDeck(_ context.Context, d flashcard.Deck) (flashcard.Deck, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	d.ID = repo.db.nextID("flashcard_deck")
	d.CardCount = 0
	repo.db.decks[d.ID] = d
	return d, nil
}

func (repo *flashcardRepository) QueryDecks(_ context.Context, userID int) ([]flashcard.Deck, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	decks := make([]flashcard.Deck, 0)
	for _, d := range repo.db.decks {
		if d.UserID == userID {
			decks = append(decks, repo.withCardCount(d))
		}
	}
	sort.Slice(decks, func(i, j int) bool { return decks[i].ID < decks[j].ID })
	return decks, nil
}

func (repo *flashcardRepository) GetDeckByID(_ context.Context, id int) (flashcard.Deck, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	d, ok := repo.db.decks[id]
	if !ok {
		return flashcard.Deck{}, flashcard.ErrDeckNotFound
	}
	return repo.withCardCount(d), nil
}

func (repo *flashcardRepository) UpdateDeck(_ context.Context, d flashcard.Deck) (flashcard.Deck, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.decks[d.ID]; !ok {
		return flashcard.Deck{}, flashcard.ErrDeckNotFound
	}
	repo.db.decks[d.ID] = d
	return repo.withCardCount(d), nil
}

func (repo *flashcardRepository) DeleteDeck(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.decks[id]; !ok {
		return flashcard.ErrDeckNotFound
	}
	for cid, c := range repo.db.cards {
		if c.DeckID == id {
			delete(repo.db.cards, cid)
		}
	}
	delete(repo.db.decks, id)
	return nil
}

func (repo *flashcardRepository) CreateCard(_ context.Context, c flashcard.Card) (flashcard.Card, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.decks[c.DeckID]; !ok {
		return flashcard.Card{}, flashcard.ErrDeckNotFound
	}
	c.ID = repo.db.nextID("flashcard")
	repo.db.cards[c.ID] = c
	return c, nil
}

func (repo *flashcardRepository) QueryCards(_ context.Context, deckID int) ([]flashcard.Card, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	cards := make([]flashcard.Card, 0)
	for _, c := range repo.db.cards {
		if c.DeckID == deckID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (repo *flashcardRepository) GetCardByID(_ context.Context, id int) (flashcard.Card, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.cards[id]; ok {
		return c, nil
	}
	return flashcard.Card{}, flashcard.ErrCardNotFound
}

func (repo *flashcardRepository) UpdateCard(_ context.Context, c flashcard.Card) (flashcard.Card, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.cards[c.ID]; !ok {
		return flashcard.Card{}, flashcard.ErrCardNotFound
	}
	repo.db.cards[c.ID] = c
	return c, nil
}

func (repo *flashcardRepository) DeleteCard(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.cards[id]; !ok {
		return flashcard.ErrCardNotFound
	}
	delete(repo.db.cards, id)
	return nil
}
