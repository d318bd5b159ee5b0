package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabiopossato/F-bio/core/academy"
	"github.com/fabiopossato/F-bio/core/student"
)

func (app *testApp) suspendAcademy(t *testing.T, name string) {
	t.Helper()
	acc, err := app.academyRepo.GetAcademyByName(name)
	require.NoError(t, err)
	acc.Status = academy.StatusSuspended
	_, err = app.academyRepo.UpdateAcademy(acc)
	require.NoError(t, err)
}

func TestSuspendedAcademyBlocksAuthedRoutes(t *testing.T) {
	app := setup(t)
	prof := createStudent(t, app.studentRepo, "p-1", "Mestre", "mestre@test.br", "pwd", student.RoleInstructor, "Gracie Barra Headquarters", student.BeltBlack)
	stu := createStudent(t, app.studentRepo, "s-20", "Aluna", "aluna@test.br", "pwd", student.RoleStudent, "Gracie Barra Headquarters", student.BeltWhite)

	profToken := app.getToken(t, prof)
	stuToken := app.getToken(t, stu)

	app.suspendAcademy(t, "Gracie Barra Headquarters")

	tests := []httpTest{
		{name: "student catalog", method: http.MethodGet, path: "/v1/techniques", token: stuToken},
		{name: "student detail", method: http.MethodGet, path: "/v1/students/s-20", token: stuToken},
		{name: "instructor roster", method: http.MethodGet, path: "/v1/students", token: profToken},
		{name: "instructor attendance", method: http.MethodPost, path: "/v1/attendance", token: profToken,
			body: []byte(`{"studentIds":["s-20"],"date":"2024-07-01"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			require.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestSuspendedAcademyAllowsOperator(t *testing.T) {
	app := setup(t)
	app.suspendAcademy(t, "Gracie Barra Headquarters")

	req, rec := newAuthRequest(http.MethodGet, "/v1/students", app.getOperatorToken(t))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var roster []student.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	require.Len(t, roster, 2)
}
