package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/academy"
	"github.com/fabiopossato/F-bio/core/student"
)

func (s *server) registerAcademyAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	ag := g.Group("/academies")

	// un-authed founding
	ag.POST("", s.academyFound)

	// operator endpoints
	og := ag.Group("", jwt, s.operatorMiddleware())
	og.GET("", s.academyQuery)
	og.GET("/:id", s.academyRetrieve)
	og.PUT("/:id/status", s.academySetStatus)
	og.PUT("/:id/pricing", s.academySetPricing)
	og.PUT("/:id/plan", s.academySetPlan)
	og.POST("/:id/trial", s.academyToggleTrial)
}

// Handlers

// academyFound creates the academy and its founding instructor in one step.
// The owner starts as an adult black belt with the whole current catalog
// mastered.
func (s *server) academyFound(ctx echo.Context) error {
	var data student.NewOwner
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOwner")
	}
	if err := data.Validate(s.deps.StudentSvc); err != nil {
		return err
	}

	catalog, err := s.deps.TechniqueSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying techniques")
	}
	catalogIDs := make([]string, 0, len(catalog))
	for _, tech := range catalog {
		catalogIDs = append(catalogIDs, tech.ID)
	}

	owner, err := s.deps.StudentSvc.RegisterOwner(data, catalogIDs)
	if err != nil {
		return errors.Wrap(err, "registering owner")
	}

	na := academy.NewAcademy{Name: data.AcademyName, OwnerID: owner.ID}
	if err := na.Validate(); err != nil {
		return err
	}
	acc, err := s.deps.AcademySvc.Found(na)
	if err != nil {
		return errors.Wrap(err, "founding academy")
	}

	return ctx.JSON(http.StatusCreated, FoundAcademyResponse{Academy: acc, Owner: owner})
}

func (s *server) academyQuery(ctx echo.Context) error {
	academies, err := s.deps.AcademySvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying academies")
	}
	if academies == nil {
		academies = []academy.Academy{}
	}
	return ctx.JSON(http.StatusOK, academies)
}

func (s *server) academyRetrieve(ctx echo.Context) error {
	acc, err := s.deps.AcademySvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding academy by ID")
	}
	return ctx.JSON(http.StatusOK, acc)
}

func (s *server) academySetStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	acc, err := s.deps.AcademySvc.SetStatus(ctx.Param("id"), data.Status)
	if err != nil {
		return errors.Wrap(err, "setting academy status")
	}
	return ctx.JSON(http.StatusOK, acc)
}

func (s *server) academySetPricing(ctx echo.Context) error {
	var data PricingRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PricingRequest")
	}

	acc, err := s.deps.AcademySvc.SetPricing(ctx.Param("id"), data.Pricing())
	if err != nil {
		return errors.Wrap(err, "setting academy pricing")
	}
	return ctx.JSON(http.StatusOK, acc)
}

func (s *server) academySetPlan(ctx echo.Context) error {
	var data PlanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PlanRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	acc, err := s.deps.AcademySvc.SetPlan(ctx.Param("id"), data.Plan)
	if err != nil {
		return errors.Wrap(err, "setting academy plan")
	}
	return ctx.JSON(http.StatusOK, acc)
}

func (s *server) academyToggleTrial(ctx echo.Context) error {
	acc, err := s.deps.AcademySvc.ToggleTrial(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling academy trial")
	}
	return ctx.JSON(http.StatusOK, acc)
}

type (
	FoundAcademyResponse struct {
		Academy academy.Academy `json:"academy"`
		Owner   student.Student `json:"owner"`
	}

	StatusRequest struct {
		Status academy.Status `json:"status" validate:"required,oneof=active suspended"`
	}

	PlanRequest struct {
		Plan academy.Plan `json:"plan" validate:"required"`
	}

	// PricingRequest accepts both JSON numbers and numeric strings; anything
	// unparseable coerces to 0.
	PricingRequest struct {
		Monthly    price `json:"Mensal"`
		Quarterly  price `json:"Trimestral"`
		Semiannual price `json:"Semestral"`
		Annual     price `json:"Anual"`
	}

	price float64
)

func (p *price) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f = 0
	}
	*p = price(f)
	return nil
}

func (sr *StatusRequest) Validate() error {
	return core.Validate.Struct(sr)
}

func (pr *PlanRequest) Validate() error {
	return core.Validate.Struct(pr)
}

func (pr *PricingRequest) Pricing() academy.Pricing {
	return academy.Pricing{
		Monthly:    float64(pr.Monthly),
		Quarterly:  float64(pr.Quarterly),
		Semiannual: float64(pr.Semiannual),
		Annual:     float64(pr.Annual),
	}
}
