package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fabiopossato/F-bio/core/academy"
	"github.com/fabiopossato/F-bio/core/access"
	"github.com/fabiopossato/F-bio/core/student"
)

func (s *server) instructorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := s.getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsInstructor || claims.IsOperator {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func (s *server) operatorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := s.getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsOperator {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// suspensionGateMiddleware blocks members of a suspended academy. Operators
// are never gated; delinquency is a soft flag and does not block here.
func (s *server) suspensionGateMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := s.getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsOperator {
				return next(ctx)
			}

			stu, err := s.getContextStudent(ctx, claims)
			if err != nil {
				return errors.Wrap(err, "getting context member")
			}
			if a := s.checkAccess(stu); a.Suspended {
				return errAcademySuspended
			}
			return next(ctx)
		}
	}
}

// checkAccess resolves the member's academy (if any) and derives the session
// access state. Members whose academy has no subscription record are only
// checked for delinquency.
func (s *server) checkAccess(stu student.Student) access.Access {
	var acc *academy.Academy
	if stu.AcademyName != "" {
		if found, err := s.deps.AcademySvc.GetByName(stu.AcademyName); err == nil {
			acc = &found
		}
	}
	return access.Check(stu, acc, student.NowFunc())
}

// selfOrInstructorMiddleware loads the target member into the context for
// detail endpoints. A member may act on their own record; instructors on any
// record of their academy; operators on anything.
func (s *server) selfOrInstructorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := s.getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			target, err := s.deps.StudentSvc.GetByID(ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding member by ID")
			}

			if claims.IsOperator || claims.Subject == target.ID {
				ctx.Set("object", target)
				return next(ctx)
			}
			if claims.IsInstructor && claims.AcademyName == target.AcademyName {
				ctx.Set("object", target)
				return next(ctx)
			}
			return errHttpNotFound
		}
	}
}
