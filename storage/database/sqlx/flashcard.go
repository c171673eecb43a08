package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core/flashcard"
)

const deckColumns = `d.id, d.user_id, d.name, d.description, COALESCE(d.due_date::text, '') AS due_date, d.created_at,
	(SELECT COUNT(*) FROM flashcard c WHERE c.deck_id = d.id) AS card_count`

type deckRow struct {
	ID          int       `db:"id"`
	UserID      int       `db:"user_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	DueDate     string    `db:"due_date"`
	CardCount   int       `db:"card_count"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r deckRow) unwrap() flashcard.Deck {
	d := flashcard.Deck(r)
	d.CreatedAt = r.CreatedAt.UTC()
	return d
}

type cardRow struct {
	ID        int       `db:"id"`
	DeckID    int       `db:"deck_id"`
	Front     string    `db:"front"`
	Back      string    `db:"back"`
	CreatedAt time.Time `db:"created_at"`
}

func (r cardRow) unwrap() flashcard.Card {
	c := flashcard.Card(r)
	c.CreatedAt = r.CreatedAt.UTC()
	return c
}

type flashcardRepository struct {
	db *sqlx.DB
}

var _ flashcard.Repository = (*flashcardRepository)(nil) // interface compliance check

func NewFlashcardRepository(db *sqlx.DB) flashcard.Repository {
	return &flashcardRepository{db: db}
}

func (repo *flashcardRepository) CreateDeck(ctx context.Context, d flashcard.Deck) (flashcard.Deck, error) {
	q := `INSERT INTO flashcard_deck (user_id, name, description, due_date, created_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::date, $5) RETURNING id`
	if err := repo.db.QueryRowxContext(ctx, q, d.UserID, d.Name, d.Description, d.DueDate, d.CreatedAt.UTC()).Scan(&d.ID); err != nil {
		return flashcard.Deck{}, errors.Wrap(err, "inserting deck")
	}
	d.CardCount = 0
	return d, nil
}

func (repo *flashcardRepository) QueryDecks(ctx context.Context, userID int) ([]flashcard.Deck, error) {
	var rows []deckRow
	q := `SELECT ` + deckColumns + ` FROM flashcard_deck d WHERE d.user_id = $1 ORDER BY d.id`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying decks")
	}
	decks := make([]flashcard.Deck, 0, len(rows))
	for _, r := range rows {
		decks = append(decks, r.unwrap())
	}
	return decks, nil
}

func (repo *flashcardRepository) GetDeckByID(ctx context.Context, id int) (flashcard.Deck, error) {
	var row deckRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+deckColumns+` FROM flashcard_deck d WHERE d.id = $1`, id); err != nil {
		return flashcard.Deck{}, trapNoRowsErr(err, flashcard.ErrDeckNotFound, "finding deck")
	}
	return row.unwrap(), nil
}

func (repo *flashcardRepository) UpdateDeck(ctx context.Context, d flashcard.Deck) (flashcard.Deck, error) {
	q := `UPDATE flashcard_deck SET name = $2, description = $3, due_date = NULLIF($4, '')::date WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, d.ID, d.Name, d.Description, d.DueDate)
	if err != nil {
		return flashcard.Deck{}, errors.Wrap(err, "updating deck")
	}
	if err = checkAffected(res, flashcard.ErrDeckNotFound); err != nil {
		return flashcard.Deck{}, err
	}
	return repo.GetDeckByID(ctx, d.ID)
}

// DeleteDeck relies on ON DELETE CASCADE for the cards.
func (repo *flashcardRepository) DeleteDeck(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM flashcard_deck WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting deck")
	}
	return checkAffected(res, flashcard.ErrDeckNotFound)
}

func (repo *flashcardRepository) CreateCard(ctx context.Context, c flashcard.Card) (flashcard.Card, error) {
	q := `INSERT INTO flashcard (deck_id, front, back, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.QueryRowxContext(ctx, q, c.DeckID, c.Front, c.Back, c.CreatedAt.UTC()).Scan(&c.ID); err != nil {
		return flashcard.Card{}, errors.Wrap(err, "inserting card")
	}
	return c, nil
}

func (repo *flashcardRepository) QueryCards(ctx context.Context, deckID int) ([]flashcard.Card, error) {
	var rows []cardRow
	q := `SELECT id, deck_id, front, back, created_at FROM flashcard WHERE deck_id = $1 ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, q, deckID); err != nil {
		return nil, errors.Wrap(err, "querying cards")
	}
	cards := make([]flashcard.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.unwrap())
	}
	return cards, nil
}

func (repo *flashcardRepository) GetCardByID(ctx context.Context, id int) (flashcard.Card, error) {
	var row cardRow
	q := `SELECT id, deck_id, front, back, created_at FROM flashcard WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return flashcard.Card{}, trapNoRowsErr(err, flashcard.ErrCardNotFound, "finding card")
	}
	return row.unwrap(), nil
}

func (repo *flashcardRepository) UpdateCard(ctx context.Context, c flashcard.Card) (flashcard.Card, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE flashcard SET front = $2, back = $3 WHERE id = $1`, c.ID, c.Front, c.Back)
	if err != nil {
		return flashcard.Card{}, errors.Wrap(err, "updating card")
	}
	if err = checkAffected(res, flashcard.ErrCardNotFound); err != nil {
		return flashcard.Card{}, err
	}
	return c, nil
}

func (repo *flashcardRepository) DeleteCard(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM flashcard WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting card")
	}
	return checkAffected(res, flashcard.ErrCardNotFound)
}
