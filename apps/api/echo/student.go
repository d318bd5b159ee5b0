package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/progression"
	"github.com/fabiopossato/F-bio/core/student"
)

var errStudentNotFoundInCtx = errors.New("member object not found in echo.Context")

func (s *server) registerStudentAPI(g *echo.Group, jwt, gate echo.MiddlewareFunc) {
	sg := g.Group("/students")

	// un-authed signup
	sg.POST("", s.studentSignup)

	// authed endpoints
	ag := sg.Group("", jwt, gate)
	ag.GET("", s.studentQuery, s.instructorMiddleware())

	g.POST("/attendance", s.recordAttendance, jwt, gate, s.instructorMiddleware())
	g.GET("/alerts", s.progressionAlerts, jwt, gate, s.instructorMiddleware())

	// detail endpoints
	dg := ag.Group("/:id", s.selfOrInstructorMiddleware())
	dg.GET("", s.studentRetrieve)
	dg.PUT("", s.studentUpdate)
	dg.DELETE("", s.studentDelete, s.instructorMiddleware())
	dg.GET("/progress", s.studentProgress)
	dg.POST("/mastery/:techId", s.toggleMastery)
	dg.POST("/promote", s.applyPromotion, s.instructorMiddleware())
	dg.POST("/payments/:month", s.recordPayment, s.instructorMiddleware())
	dg.DELETE("/payments/:month", s.removePayment, s.instructorMiddleware())
}

// Handlers

func (s *server) studentSignup(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(s.deps.StudentSvc); err != nil {
		return err
	}

	stu, err := s.deps.StudentSvc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering member")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

// studentQuery returns the caller's academy roster. Operators see the whole
// network.
func (s *server) studentQuery(ctx echo.Context) error {
	claims, err := s.getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var students []student.Student
	if claims.IsOperator {
		students, err = s.deps.StudentSvc.QueryAll()
	} else {
		students, err = s.deps.StudentSvc.QueryRoster(claims.AcademyName)
	}
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (s *server) studentRetrieve(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (s *server) studentUpdate(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(stu, s.deps.StudentSvc); err != nil {
		return err
	}

	stu, err := s.deps.StudentSvc.Update(stu.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating member")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (s *server) studentDelete(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}
	if err := s.deps.StudentSvc.Delete(stu.ID); err != nil {
		return errors.Wrap(err, "deleting member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) studentProgress(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	catalog, err := s.deps.TechniqueSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying techniques")
	}
	return ctx.JSON(http.StatusOK, progression.Evaluate(stu, catalog))
}

func (s *server) recordAttendance(ctx echo.Context) error {
	var data AttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := s.deps.StudentSvc.RecordAttendance(data.StudentIDs, data.Date); err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) toggleMastery(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	actor, err := s.getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}

	stu, err = s.deps.StudentSvc.ToggleMastery(actor, stu.ID, ctx.Param("techId"))
	if err != nil {
		return errors.Wrap(err, "toggling mastery")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (s *server) applyPromotion(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	var data PromotionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PromotionRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := s.getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}

	stu, err = s.deps.StudentSvc.ApplyPromotion(actor, stu.ID, data.Belt, data.Stripes)
	if err != nil {
		return errors.Wrap(err, "applying promotion")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (s *server) recordPayment(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	month := MonthParam{Month: ctx.Param("month")}
	if err := month.Validate(); err != nil {
		return err
	}

	actor, err := s.getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}

	stu, err = s.deps.StudentSvc.RecordPayment(actor, stu.ID, month.Month)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (s *server) removePayment(ctx echo.Context) error {
	stu, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	month := MonthParam{Month: ctx.Param("month")}
	if err := month.Validate(); err != nil {
		return err
	}

	actor, err := s.getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}

	stu, err = s.deps.StudentSvc.RemovePayment(actor, stu.ID, month.Month)
	if err != nil {
		return errors.Wrap(err, "removing payment")
	}
	return ctx.JSON(http.StatusOK, stu)
}

// progressionAlerts lists every student of the caller's academy flagged for
// a stripe or belt promotion.
func (s *server) progressionAlerts(ctx echo.Context) error {
	claims, err := s.getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var students []student.Student
	if claims.IsOperator {
		students, err = s.deps.StudentSvc.QueryAll()
	} else {
		students, err = s.deps.StudentSvc.QueryRoster(claims.AcademyName)
	}
	if err != nil {
		return errors.Wrap(err, "querying members")
	}

	catalog, err := s.deps.TechniqueSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying techniques")
	}
	return ctx.JSON(http.StatusOK, progression.Alerts(students, catalog))
}

type (
	AttendanceRequest struct {
		StudentIDs []string `json:"studentIds" validate:"required,min=1"`
		Date       string   `json:"date" validate:"required,isodate"`
	}

	PromotionRequest struct {
		Belt    student.Belt `json:"belt" validate:"required"`
		Stripes int          `json:"stripes" validate:"min=0,max=4"`
	}

	MonthParam struct {
		Month string `json:"month" validate:"required,yearmonth"`
	}
)

func (ar *AttendanceRequest) Validate() error {
	return core.Validate.Struct(ar)
}

func (pr *PromotionRequest) Validate() error {
	return core.Validate.Struct(pr)
}

func (mp *MonthParam) Validate() error {
	return core.Validate.Struct(mp)
}
