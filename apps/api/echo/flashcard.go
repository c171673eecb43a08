package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/flashcard"
)

var contextCardKey = "card"

type flashcardApi struct {
	svc      *flashcard.Service
	validate *validator.Validate
}

func registerFlashcardAPI(g *echo.Group, svc *flashcard.Service, validate *validator.Validate) {
	api := flashcardApi{svc: svc, validate: validate}

	fg := g.Group("/flashcard-decks")
	fg.GET("", api.queryDecks)
	fg.POST("", api.createDeck)

	dg := fg.Group("/:id", ownedObjectMiddleware("id", func(ctx context.Context, id int) (core.Owned, error) {
		return svc.GetDeckByID(ctx, id)
	}))
	dg.GET("", api.retrieveDeck)
	dg.PUT("", api.updateDeck)
	dg.DELETE("", api.destroyDeck)

	dg.GET("/flashcards", api.queryCards)
	dg.POST("/flashcards", api.createCard)
	cg := dg.Group("/flashcards/:cardId", api.cardMiddleware)
	cg.GET("", api.retrieveCard)
	cg.PUT("", api.updateCard)
	cg.DELETE("", api.destroyCard)
}

// Decks

func (api *flashcardApi) queryDecks(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	decks, err := api.svc.QueryDecks(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying decks")
	}
	if decks == nil {
		decks = []flashcard.Deck{}
	}
	return ctx.JSON(http.StatusOK, decks)
}

func (api *flashcardApi) createDeck(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data flashcard.NewDeck
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDeck")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	d, err := api.svc.CreateDeck(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating deck")
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *flashcardApi) retrieveDeck(ctx echo.Context) error {
	d, err := contextDeck(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *flashcardApi) updateDeck(ctx echo.Context) error {
	d, err := contextDeck(ctx)
	if err != nil {
		return err
	}
	var data flashcard.UpdateDeck
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDeck")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	d, err = api.svc.UpdateDeck(ctx.Request().Context(), d, data)
	if err != nil {
		return errors.Wrap(err, "updating deck")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *flashcardApi) destroyDeck(ctx echo.Context) error {
	d, err := contextDeck(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteDeck(ctx.Request().Context(), d.ID); err != nil {
		return errors.Wrap(err, "deleting deck")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Cards

func (api *flashcardApi) cardMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		d, err := contextDeck(ctx)
		if err != nil {
			return err
		}
		id, err := intParam(ctx, "cardId")
		if err != nil {
			return err
		}
		c, err := api.svc.GetCard(ctx.Request().Context(), d, id)
		if err != nil {
			return err
		}
		ctx.Set(contextCardKey, c)
		return next(ctx)
	}
}

func (api *flashcardApi) queryCards(ctx echo.Context) error {
	d, err := contextDeck(ctx)
	if err != nil {
		return err
	}
	cards, err := api.svc.QueryCards(ctx.Request().Context(), d)
	if err != nil {
		return errors.Wrap(err, "querying cards")
	}
	if cards == nil {
		cards = []flashcard.Card{}
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *flashcardApi) createCard(ctx echo.Context) error {
	d, err := contextDeck(ctx)
	if err != nil {
		return err
	}
	var data flashcard.NewCard
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCard")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.CreateCard(ctx.Request().Context(), d, data)
	if err != nil {
		return errors.Wrap(err, "creating card")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *flashcardApi) retrieveCard(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ctx.Get(contextCardKey))
}

func (api *flashcardApi) updateCard(ctx echo.Context) error {
	c, ok := ctx.Get(contextCardKey).(flashcard.Card)
	if !ok {
		return errors.New("card not found in echo.Context")
	}
	var data flashcard.UpdateCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCard")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.UpdateCard(ctx.Request().Context(), c, data)
	if err != nil {
		return errors.Wrap(err, "updating card")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *flashcardApi) destroyCard(ctx echo.Context) error {
	c, ok := ctx.Get(contextCardKey).(flashcard.Card)
	if !ok {
		return errors.New("card not found in echo.Context")
	}
	if err := api.svc.DeleteCard(ctx.Request().Context(), c.ID); err != nil {
		return errors.Wrap(err, "deleting card")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func contextDeck(ctx echo.Context) (flashcard.Deck, error) {
	obj, err := getContextObject(ctx)
	if err != nil {
		return flashcard.Deck{}, err
	}
	d, ok := obj.(flashcard.Deck)
	if !ok {
		return flashcard.Deck{}, errors.New("deck not found in echo.Context")
	}
	return d, nil
}
