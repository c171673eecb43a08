package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/meeting"
)

type meetingApi struct {
	svc      *meeting.Service
	validate *validator.Validate
}

func registerMeetingAPI(g *echo.Group, svc *meeting.Service, validate *validator.Validate) {
	api := meetingApi{svc: svc, validate: validate}

	mg := g.Group("/meetings")
	mg.GET("", api.query)
	mg.POST("", api.create)

	dg := mg.Group("/:id", ownedObjectMiddleware("id", func(ctx context.Context, id int) (core.Owned, error) {
		return svc.GetByID(ctx, id)
	}))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *meetingApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	filter := meeting.QueryFilter{Date: core.CleanString(ctx.QueryParam("date"))}

	meetings, err := api.svc.Query(ctx.Request().Context(), usr.ID, filter)
	if err != nil {
		return errors.Wrap(err, "querying meetings")
	}
	if meetings == nil {
		meetings = []meeting.Meeting{}
	}
	return ctx.JSON(http.StatusOK, meetings)
}

func (api *meetingApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data meeting.NewMeeting
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMeeting")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	m, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating meeting")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *meetingApi) retrieve(ctx echo.Context) error {
	m, err := contextMeeting(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *meetingApi) update(ctx echo.Context) error {
	m, err := contextMeeting(ctx)
	if err != nil {
		return err
	}
	var data meeting.UpdateMeeting
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMeeting")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	m, err = api.svc.Update(ctx.Request().Context(), m, data)
	if err != nil {
		return errors.Wrap(err, "updating meeting")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *meetingApi) destroy(ctx echo.Context) error {
	m, err := contextMeeting(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), m.ID); err != nil {
		return errors.Wrap(err, "deleting meeting")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func contextMeeting(ctx echo.Context) (meeting.Meeting, error) {
	obj, err := getContextObject(ctx)
	if err != nil {
		return meeting.Meeting{}, err
	}
	m, ok := obj.(meeting.Meeting)
	if !ok {
		return meeting.Meeting{}, errors.New("meeting not found in echo.Context")
	}
	return m, nil
}
