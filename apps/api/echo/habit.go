package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/habit"
)

type habitApi struct {
	svc      *habit.Service
	validate *validator.Validate
}

func registerHabitAPI(g *echo.Group, svc *habit.Service, validate *validator.Validate) {
	api := habitApi{svc: svc, validate: validate}

	hg := g.Group("/habits")
	hg.GET("", api.query)
	hg.POST("", api.create)

	dg := hg.Group("/:id", ownedObjectMiddleware("id", func(ctx context.Context, id int) (core.Owned, error) {
		return svc.GetByID(ctx, id)
	}))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/track", api.track)
}

func (api *habitApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	habits, err := api.svc.Query(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying habits")
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	return ctx.JSON(http.StatusOK, habits)
}

func (api *habitApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data habit.NewHabit
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHabit")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	h, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating habit")
	}
	return ctx.JSON(http.StatusCreated, h)
}

func (api *habitApi) retrieve(ctx echo.Context) error {
	h, err := contextHabit(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *habitApi) update(ctx echo.Context) error {
	h, err := contextHabit(ctx)
	if err != nil {
		return err
	}
	var data habit.UpdateHabit
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateHabit")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	h, err = api.svc.Update(ctx.Request().Context(), h, data)
	if err != nil {
		return errors.Wrap(err, "updating habit")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *habitApi) track(ctx echo.Context) error {
	h, err := contextHabit(ctx)
	if err != nil {
		return err
	}
	var data habit.TrackHabit
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TrackHabit")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	h, err = api.svc.Track(ctx.Request().Context(), h, data)
	if err != nil {
		return errors.Wrap(err, "tracking habit")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *habitApi) destroy(ctx echo.Context) error {
	h, err := contextHabit(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), h.ID); err != nil {
		return errors.Wrap(err, "deleting habit")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func contextHabit(ctx echo.Context) (habit.Habit, error) {
	obj, err := getContextObject(ctx)
	if err != nil {
		return habit.Habit{}, err
	}
	h, ok := obj.(habit.Habit)
	if !ok {
		return habit.Habit{}, errors.New("habit not found in echo.Context")
	}
	return h, nil
}
