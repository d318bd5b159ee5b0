package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/access"
	"github.com/fabiopossato/F-bio/core/student"
)

func (s *server) registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", s.login) // TODO: access attempt
	ag.POST("/operator-login", s.operatorLogin)

	// authed endpoints
	ag.POST("/token-refresh", s.tokenRefresh, jwt)
}

// Handlers

func (s *server) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	stu, err := s.authenticate(data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}

	// suspended academies lock the door at login time too
	acc := s.checkAccess(stu)
	if acc.Suspended {
		return errAcademySuspended
	}

	token, err := s.GenerateToken(GetStudentClaims(s.deps.Conf, stu))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Student: &stu, Access: acc})
}

func (s *server) operatorLogin(ctx echo.Context) error {
	var data OperatorLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OperatorLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	op := s.deps.Conf.Operator
	if data.Username != op.Username || data.Password != op.Password {
		return errAuthenticationFailed
	}

	token, err := s.GenerateToken(GetOperatorClaims(s.deps.Conf))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (s *server) tokenRefresh(ctx echo.Context) error {
	token, err := s.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	OperatorLoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token   string           `json:"token"`
		Student *student.Student `json:"student,omitempty"`
		Access  access.Access    `json:"access"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}

func (or *OperatorLoginRequest) Validate() error {
	or.Username = core.CleanString(or.Username)
	return core.Validate.Struct(or)
}
