package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/studysession"
)

type studySessionApi struct {
	svc      *studysession.Service
	validate *validator.Validate
}

func registerStudySessionAPI(g *echo.Group, svc *studysession.Service, validate *validator.Validate) {
	api := studySessionApi{svc: svc, validate: validate}

	sg := g.Group("/study-sessions")
	sg.GET("", api.query)
	sg.POST("", api.start)
	sg.GET("/active", api.active)
	sg.GET("/stats", api.stats)

	dg := sg.Group("/:id", ownedObjectMiddleware("id", func(ctx context.Context, id int) (core.Owned, error) {
		return svc.GetByID(ctx, id)
	}))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/stop", api.stop)
}

func (api *studySessionApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	sessions, err := api.svc.Query(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying study sessions")
	}
	if sessions == nil {
		sessions = []studysession.StudySession{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

// start stops the user's running session, if any, before starting the new one.
func (api *studySessionApi) start(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data studysession.NewStudySession
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudySession")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Start(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "starting study session")
	}
	sessionsStarted.Inc()
	return ctx.JSON(http.StatusCreated, s)
}

// active responds with null when the user has no running session.
func (api *studySessionApi) active(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	s, err := api.svc.GetActive(ctx.Request().Context(), usr.ID)
	if err != nil {
		if errors.Cause(err) == studysession.ErrNotFound {
			return ctx.JSON(http.StatusOK, nil)
		}
		return errors.Wrap(err, "getting active study session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studySessionApi) stats(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	stats, err := api.svc.Stats(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "computing study stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *studySessionApi) retrieve(ctx echo.Context) error {
	s, err := contextStudySession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studySessionApi) stop(ctx echo.Context) error {
	s, err := contextStudySession(ctx)
	if err != nil {
		return err
	}
	s, err = api.svc.Stop(ctx.Request().Context(), s)
	if err != nil {
		return errors.Wrap(err, "stopping study session")
	}
	sessionsStopped.Inc()
	return ctx.JSON(http.StatusOK, s)
}

func (api *studySessionApi) update(ctx echo.Context) error {
	s, err := contextStudySession(ctx)
	if err != nil {
		return err
	}
	var data studysession.UpdateStudySession
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudySession")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.Update(ctx.Request().Context(), s, data)
	if err != nil {
		return errors.Wrap(err, "updating study session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studySessionApi) destroy(ctx echo.Context) error {
	s, err := contextStudySession(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), s.ID); err != nil {
		return errors.Wrap(err, "deleting study session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func contextStudySession(ctx echo.Context) (studysession.StudySession, error) {
	obj, err := getContextObject(ctx)
	if err != nil {
		return studysession.StudySession{}, err
	}
	s, ok := obj.(studysession.StudySession)
	if !ok {
		return studysession.StudySession{}, errors.New("study session not found in echo.Context")
	}
	return s, nil
}
