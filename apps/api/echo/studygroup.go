package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core/studygroup"
)

var contextGroupKey = "group"

type studyGroupApi struct {
	svc      *studygroup.Service
	validate *validator.Validate
}

func registerStudyGroupAPI(g *echo.Group, svc *studygroup.Service, validate *validator.Validate) {
	api := studyGroupApi{svc: svc, validate: validate}

	sg := g.Group("/study-groups")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/search", api.search)

	// private groups are visible to their members only
	visible := api.groupMiddleware(true)
	sg.GET("/:id", api.retrieve, visible)
	sg.GET("/:id/members", api.members, visible)
	sg.GET("/:id/leaderboard", api.leaderboard, visible)
	sg.GET("/:id/active-sessions", api.activeSessions, visible)

	raw := api.groupMiddleware(false)
	sg.PUT("/:id", api.update, raw)
	sg.DELETE("/:id", api.destroy, raw)
	sg.POST("/:id/join", api.join, raw)
	sg.POST("/:id/leave", api.leave, raw)
}

// groupMiddleware loads the `:id` group into the context.
// When checkVisibility is set, private groups are only loaded for their members.
func (api *studyGroupApi) groupMiddleware(checkVisibility bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := intParam(ctx, "id")
			if err != nil {
				return err
			}
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			var grp studygroup.StudyGroup
			if checkVisibility {
				grp, err = api.svc.Get(ctx.Request().Context(), id, usr.ID)
			} else {
				grp, err = api.svc.GetByID(ctx.Request().Context(), id)
			}
			if err != nil {
				return err
			}
			ctx.Set(contextGroupKey, grp)
			return next(ctx)
		}
	}
}

func (api *studyGroupApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	groups, err := api.svc.QueryForMember(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying study groups")
	}
	if groups == nil {
		groups = []studygroup.StudyGroup{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *studyGroupApi) search(ctx echo.Context) error {
	groups, err := api.svc.Search(ctx.Request().Context(), ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "searching study groups")
	}
	if groups == nil {
		groups = []studygroup.StudyGroup{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *studyGroupApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data studygroup.NewStudyGroup
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudyGroup")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	grp, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating study group")
	}
	groupsCreated.Inc()
	return ctx.JSON(http.StatusCreated, grp)
}

func (api *studyGroupApi) retrieve(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *studyGroupApi) update(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data studygroup.UpdateStudyGroup
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudyGroup")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	grp, err = api.svc.Update(ctx.Request().Context(), grp, usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating study group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *studyGroupApi) destroy(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), grp, usr.ID); err != nil {
		return errors.Wrap(err, "deleting study group")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studyGroupApi) members(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	members, err := api.svc.Members(ctx.Request().Context(), grp)
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	if members == nil {
		members = []studygroup.Member{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *studyGroupApi) join(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	m, err := api.svc.Join(ctx.Request().Context(), grp, usr.ID)
	if err != nil {
		return errors.Wrap(err, "joining study group")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *studyGroupApi) leave(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Leave(ctx.Request().Context(), grp, usr.ID); err != nil {
		return errors.Wrap(err, "leaving study group")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studyGroupApi) leaderboard(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	entries, err := api.svc.Leaderboard(ctx.Request().Context(), grp)
	if err != nil {
		return errors.Wrap(err, "building leaderboard")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *studyGroupApi) activeSessions(ctx echo.Context) error {
	grp, err := contextGroup(ctx)
	if err != nil {
		return err
	}
	sessions, err := api.svc.ActiveSessions(ctx.Request().Context(), grp)
	if err != nil {
		return errors.Wrap(err, "querying active sessions")
	}
	if sessions == nil {
		sessions = []studygroup.ActiveSession{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func contextGroup(ctx echo.Context) (studygroup.StudyGroup, error) {
	if grp, ok := ctx.Get(contextGroupKey).(studygroup.StudyGroup); ok {
		return grp, nil
	}
	return studygroup.StudyGroup{}, errors.New("study group not found in echo.Context")
}
