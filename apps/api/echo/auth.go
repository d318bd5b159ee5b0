package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/student"
)

const (
	claimsContextKey  = "memberToken"
	studentContextKey = "member"

	// operatorSubject marks tokens issued on the master-credential track;
	// there is no student record behind them.
	operatorSubject = "operator"
)

// newJWTConfig builds the JWT auth middleware config.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	AcademyName  string `json:"academyName,omitempty"`
	IsStudent    bool   `json:"is_student,omitempty"`
	IsInstructor bool   `json:"is_instructor,omitempty"`
	IsOperator   bool   `json:"is_operator,omitempty"`
}

func GetStudentClaims(conf *core.Config, stu student.Student, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   stu.ID,
			Audience:  "Academia",
			ExpiresAt: now.Add(conf.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         stu.Name,
		Email:        stu.Email,
		AcademyName:  stu.AcademyName,
		IsStudent:    stu.IsStudent(),
		IsInstructor: stu.IsInstructor(),
		IsOperator:   stu.IsOperator(),
	}
}

// GetOperatorClaims builds claims for the master-credential track.
func GetOperatorClaims(conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   operatorSubject,
			Audience:  "Academia",
			ExpiresAt: now.Add(conf.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Unix(),
		Name:         conf.Operator.Username,
		IsOperator:   true,
	}
}

func (s *server) authenticate(email, pwd string) (student.Student, error) {
	stu, err := s.deps.StudentSvc.GetByEmail(email)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errAuthenticationFailed
		}
		return student.Student{}, errors.Wrap(err, "finding member by email")
	}
	if !stu.CheckPassword(pwd) {
		return student.Student{}, errAuthenticationFailed
	}
	return stu, nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (s *server) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(s.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(s.jwtConfig.SigningKey.([]byte))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (s *server) getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func (s *server) getContextStudent(ctx echo.Context, clms ...Claims) (student.Student, error) {
	if stu, ok := ctx.Get(studentContextKey).(student.Student); ok {
		return stu, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = s.getContextClaims(ctx)
		if err != nil {
			return student.Student{}, errors.Wrap(err, "getting context claims")
		}
	}
	if claims.IsOperator {
		return student.Student{}, errHttpForbidden
	}

	stu, err := s.deps.StudentSvc.GetByID(claims.Subject)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "finding member by ID")
	}
	ctx.Set(studentContextKey, stu)
	return stu, nil
}

func (s *server) refreshToken(ctx echo.Context) (string, error) {
	claims, err := s.getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(s.deps.Conf.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	var newClaims *Claims
	if claims.IsOperator {
		newClaims = GetOperatorClaims(s.deps.Conf)
		newClaims.OrigIssuedAt = claims.OrigIssuedAt
	} else {
		stu, err := s.getContextStudent(ctx, claims)
		if err != nil {
			return "", errors.Wrap(err, "getting context member")
		}
		newClaims = GetStudentClaims(s.deps.Conf, stu, claims.OrigIssuedAt)
	}

	token, err := s.GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
