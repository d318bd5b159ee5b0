package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fabiopossato/F-bio/core/technique"
)

func (s *server) registerTechniqueAPI(g *echo.Group, jwt, gate echo.MiddlewareFunc) {
	tg := g.Group("/techniques", jwt, gate)

	tg.GET("", s.techniqueQuery)
	tg.GET("/:id", s.techniqueRetrieve)
	tg.POST("", s.techniqueCreate, s.instructorMiddleware())
	tg.PUT("/:id", s.techniqueUpdate, s.instructorMiddleware())
}

// Handlers

func (s *server) techniqueQuery(ctx echo.Context) error {
	techs, err := s.deps.TechniqueSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying techniques")
	}
	if techs == nil {
		techs = []technique.Technique{}
	}
	return ctx.JSON(http.StatusOK, techs)
}

func (s *server) techniqueRetrieve(ctx echo.Context) error {
	tech, err := s.deps.TechniqueSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding technique by ID")
	}
	return ctx.JSON(http.StatusOK, tech)
}

func (s *server) techniqueCreate(ctx echo.Context) error {
	var data technique.NewTechnique
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTechnique")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tech, err := s.deps.TechniqueSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating technique")
	}
	return ctx.JSON(http.StatusCreated, tech)
}

func (s *server) techniqueUpdate(ctx echo.Context) error {
	orig, err := s.deps.TechniqueSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding technique by ID")
	}

	var data technique.UpdateTechnique
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTechnique")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	tech, err := s.deps.TechniqueSvc.Update(orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating technique")
	}
	return ctx.JSON(http.StatusOK, tech)
}
