package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/attendance"
	"github.com/vertexlab/academia/core/calendar"
	"github.com/vertexlab/academia/core/course"
	"github.com/vertexlab/academia/core/marks"
	"github.com/vertexlab/academia/core/portal"
	"github.com/vertexlab/academia/core/profile"
	"github.com/vertexlab/academia/core/schedule"
)

type academiaApi struct {
	conf       *core.Config
	logger     core.Logger
	client     portal.Client
	schedule   *schedule.Service
	attendance *attendance.Service
	marks      *marks.Service
	courses    *course.Service
	calendar   *calendar.Service
	profile    *profile.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAcademiaAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := academiaApi{
		conf:       deps.Conf,
		logger:     deps.Logger,
		client:     deps.Client,
		schedule:   deps.ScheduleSvc,
		attendance: deps.AttendanceSvc,
		marks:      deps.MarksSvc,
		courses:    deps.CourseSvc,
		calendar:   deps.CalendarSvc,
		profile:    deps.ProfileSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	// un-authed endpoints
	g.POST("/auth/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.DELETE("/auth/logout", api.logout)
	ag.POST("/auth/token-refresh", api.refreshToken)
	ag.GET("/timetable", api.timetable)
	ag.GET("/attendance", api.getAttendance)
	ag.GET("/marks", api.getMarks)
	ag.GET("/courses", api.getCourses)
	ag.GET("/calendar", api.getCalendar)
	ag.GET("/dayorder", api.dayOrder)
	ag.GET("/user", api.user)
}

// Handlers

func (api *academiaApi) login(ctx echo.Context) error {
	var data portal.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	data.Account = core.CleanString(data.Account, true /* lower */)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	session, err := api.client.Login(ctx.Request().Context(), data)
	if err != nil {
		if portal.IsAuthError(err) {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return errors.Wrap(err, "logging in to portal")
	}

	claims, err := NewClaims(api.conf, data.Account, session.Token)
	if err != nil {
		return errors.Wrap(err, "building claims")
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *academiaApi) logout(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}
	if err := api.client.Logout(ctx.Request().Context(), token); err != nil && !portal.IsAuthError(err) {
		// the portal session dies on its own eventually; not fatal
		api.logger.Warn("revoking portal session", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academiaApi) refreshToken(ctx echo.Context) error {
	claims, err := refreshClaims(ctx, api.conf)
	if err != nil {
		return errors.Wrap(err, "refreshing claims")
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *academiaApi) timetable(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}
	res, err := api.schedule.Timetable(ctx.Request().Context(), token)
	if err != nil {
		return errors.Wrap(err, "deriving timetable")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academiaApi) getAttendance(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}
	res, err := api.attendance.Attendance(ctx.Request().Context(), token)
	if err != nil {
		return errors.Wrap(err, "deriving attendance")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academiaApi) getMarks(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}
	res, err := api.marks.Marks(ctx.Request().Context(), token)
	if err != nil {
		return errors.Wrap(err, "deriving marks")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academiaApi) getCourses(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}
	res, err := api.courses.Courses(ctx.Request().Context(), token)
	if err != nil {
		return errors.Wrap(err, "normalizing courses")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academiaApi) getCalendar(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}
	res, err := api.calendar.Calendar(ctx.Request().Context(), token)
	if err != nil {
		return errors.Wrap(err, "normalizing calendar")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academiaApi) dayOrder(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}

	res, err := api.calendar.DayOrder(ctx.Request().Context(), token)
	resp := DayOrderResponse{DayOrder: res.DayOrder, Stale: res.Stale}
	if err != nil {
		// "0" with an explicit miss beats guessing; hard failures still fail
		if errors.Cause(err) != calendar.ErrDayOrderUnknown {
			return errors.Wrap(err, "resolving day order")
		}
		msg := err.Error()
		resp.Error = &msg
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *academiaApi) user(ctx echo.Context) error {
	token, err := getContextPortalToken(ctx, api.conf)
	if err != nil {
		return err
	}
	res, err := api.profile.Profile(ctx.Request().Context(), token)
	if err != nil {
		return errors.Wrap(err, "normalizing profile")
	}
	return ctx.JSON(http.StatusOK, res)
}

type (
	LoginResponse struct {
		Token string `json:"token"`
	}

	DayOrderResponse struct {
		DayOrder string  `json:"dayOrder"`
		Stale    bool    `json:"stale"`
		Error    *string `json:"error"`
	}
)
