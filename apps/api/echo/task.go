package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/task"
)

type taskApi struct {
	svc      *task.Service
	validate *validator.Validate
}

func registerTaskAPI(g *echo.Group, svc *task.Service, validate *validator.Validate) {
	api := taskApi{svc: svc, validate: validate}

	tg := g.Group("/tasks")
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/date/:date", api.queryByDate)

	dg := tg.Group("/:id", ownedObjectMiddleware("id", func(ctx context.Context, id int) (core.Owned, error) {
		return svc.GetByID(ctx, id)
	}))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *taskApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	filter := task.QueryFilter{
		Date:     ctx.QueryParam("date"),
		Priority: ctx.QueryParam("priority"),
	}
	if val := ctx.QueryParam("completed"); val != "" {
		completed, err := strconv.ParseBool(val)
		if err != nil {
			return core.NewFieldValidationError("completed", "completed must be a boolean")
		}
		filter.Completed = &completed
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	tasks, err := api.svc.Query(ctx.Request().Context(), usr.ID, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) queryByDate(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	date := core.CleanString(ctx.Param("date"))
	if err = api.validate.Var(date, "isodate"); err != nil {
		return core.NewFieldValidationError("date", "date must be formatted as YYYY-MM-DD")
	}

	tasks, err := api.svc.QueryByDate(ctx.Request().Context(), usr.ID, date)
	if err != nil {
		return errors.Wrap(err, "querying tasks by date")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data task.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	t, err := contextTask(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) update(ctx echo.Context) error {
	t, err := contextTask(ctx)
	if err != nil {
		return err
	}
	var data task.UpdateTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	if err = data.Validate(t, api.validate); err != nil {
		return err
	}

	t, err = api.svc.Update(ctx.Request().Context(), t, data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	t, err := contextTask(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), t.ID); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func contextTask(ctx echo.Context) (task.Task, error) {
	obj, err := getContextObject(ctx)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := obj.(task.Task)
	if !ok {
		return task.Task{}, errors.New("task not found in echo.Context")
	}
	return t, nil
}
