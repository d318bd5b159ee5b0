package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabiopossato/F-bio/core/student"
)

func TestLogin(t *testing.T) {
	app := setup(t)
	createStudent(t, app.studentRepo, "s-10", "João", "joao@test.br", "oss123", student.RoleStudent, "Gracie Barra Headquarters", student.BeltWhite)

	tests := []httpTest{
		{
			name: "valid credentials", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email":"joao@test.br","password":"oss123"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "email is case-insensitive", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email":"JOAO@test.br","password":"oss123"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email":"joao@test.br","password":"nope"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "password is case-sensitive", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email":"joao@test.br","password":"OSS123"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email":"ghost@test.br","password":"oss123"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.NotEmpty(t, resp.Token)
				require.NotNil(t, resp.Student)
			}
		})
	}
}

func TestLogin_delinquencyFlag(t *testing.T) {
	app := setup(t)
	stu := createStudent(t, app.studentRepo, "s-10", "João", "joao@test.br", "oss123", student.RoleStudent, "Gracie Barra Headquarters", student.BeltWhite)

	req, rec := newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"email":"joao@test.br","password":"oss123"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Access.Delinquent, "current month unpaid: delinquent flag expected")
	require.False(t, resp.Access.Suspended)

	// pay the current month: flag clears
	stu.Payments = append(stu.Payments, student.MonthToken(student.NowFunc()))
	_, err := app.studentRepo.UpdateStudent(stu)
	require.NoError(t, err)

	req, rec = newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"email":"joao@test.br","password":"oss123"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Access.Delinquent)
}

func TestLogin_suspendedAcademyBlocks(t *testing.T) {
	app := setup(t)
	createStudent(t, app.studentRepo, "s-10", "João", "joao@test.br", "oss123", student.RoleStudent, "Gracie Barra Headquarters", student.BeltWhite)
	createStudent(t, app.studentRepo, "s-11", "Mestre", "mestre@test.br", "oss123", student.RoleInstructor, "Gracie Barra Headquarters", student.BeltBlack)

	app.suspendAcademy(t, "Gracie Barra Headquarters")

	// students and instructors are both locked out
	for _, email := range []string{"joao@test.br", "mestre@test.br"} {
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"email":"`+email+`","password":"oss123"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code, email)
	}
}

func TestOperatorLogin(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "master credentials", method: http.MethodPost, path: "/v1/auth/operator-login",
			body:     []byte(`{"username":"fpo","password":"2725"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/auth/operator-login",
			body:     []byte(`{"username":"fpo","password":"0000"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "wrong username", method: http.MethodPost, path: "/v1/auth/operator-login",
			body:     []byte(`{"username":"admin","password":"2725"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestTokenRefresh(t *testing.T) {
	app := setup(t)
	stu := createStudent(t, app.studentRepo, "s-10", "João", "joao@test.br", "oss123", student.RoleStudent, "Gracie Barra Headquarters", student.BeltWhite)

	t.Run("member token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", app.getToken(t, stu))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
	})

	t.Run("operator token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", app.getOperatorToken(t))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/token-refresh")
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
