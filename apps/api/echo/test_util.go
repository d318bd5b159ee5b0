package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/academy"
	"github.com/fabiopossato/F-bio/core/student"
	"github.com/fabiopossato/F-bio/core/technique"
	snapshotdb "github.com/fabiopossato/F-bio/storage/snapshot"
	inmemstore "github.com/fabiopossato/F-bio/storage/snapshot/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestConfig() *core.Config {
	conf := &core.Config{
		TestMode:                  true,
		Env:                       "TEST",
		AppName:                   "OSS Flow",
		SecretKey:                 []byte("secret"),
		JWTExpirationDelta:        10 * time.Minute,
		JWTRefreshExpirationDelta: 4 * time.Hour,
	}
	conf.Operator.Username = "fpo"
	conf.Operator.Password = "2725"
	return conf
}

type testApp struct {
	server *server

	studentSvc   *student.Service
	techniqueSvc *technique.Service
	academySvc   *academy.Service

	studentRepo student.Repository
	academyRepo academy.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()

	store := inmemstore.Open()
	conf := newTestConfig()

	studentSvc := student.NewService(snapshotdb.NewStudentRepository(store), nil, conf)
	techniqueSvc := technique.NewService(snapshotdb.NewTechniqueRepository(store))
	academySvc := academy.NewService(snapshotdb.NewAcademyRepository(store), nil, nil)

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         nopLogger{},
		DisableReqLogs: true,
		StudentSvc:     studentSvc,
		TechniqueSvc:   techniqueSvc,
		AcademySvc:     academySvc,
	}).(*server)

	return &testApp{
		server:       srv,
		studentSvc:   studentSvc,
		techniqueSvc: techniqueSvc,
		academySvc:   academySvc,
		studentRepo:  snapshotdb.NewStudentRepository(store),
		academyRepo:  snapshotdb.NewAcademyRepository(store),
	}
}

func (app *testApp) getToken(t *testing.T, stu student.Student) string {
	t.Helper()
	token, err := app.server.GenerateToken(GetStudentClaims(app.server.deps.Conf, stu))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) getOperatorToken(t *testing.T) string {
	t.Helper()
	token, err := app.server.GenerateToken(GetOperatorClaims(app.server.deps.Conf))
	if err != nil {
		t.Fatalf("getOperatorToken() failed: %v", err)
	}
	return token
}

func createStudent(t *testing.T, repo student.Repository, id, name, email, pwd, role, academyName string, belt student.Belt) student.Student {
	t.Helper()
	stu := student.Student{
		ID: id, Name: name, Email: email, Password: pwd,
		Age: 25, Weight: 70, Category: student.CategoryAdult,
		CurrentBelt: belt, JoinedDate: "2024-01-01",
		AttendanceHistory: []string{}, MasteredTechniques: []string{},
		Role: role, AcademyName: academyName,
		MonthlyTuition: student.AdultTuition, Payments: []string{},
		PlanType: academy.PlanMonthly,
	}
	stu, err := repo.CreateStudent(stu)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return stu
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
