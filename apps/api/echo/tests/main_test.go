package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/darasadev/darasa/apps/api/echo"
	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/academics"
	"github.com/darasadev/darasa/core/activity"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/finance"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
	emailsvc "github.com/darasadev/darasa/services/email"
	dummydb "github.com/darasadev/darasa/storage/database/dummy"
	testutil "github.com/darasadev/darasa/tests"
)

var (
	errMissingToken     = httpErr{Error: "missing or malformed jwt"}
	errPermissionDenied = httpErr{Error: "permission denied"}
	errNotFound         = httpErr{Error: "not found"}
)

// testApp wires a full server against a fresh in-memory store. Every test
// builds its own so tests never share state.
type testApp struct {
	app  echoapi.Server
	conf *core.Config

	usrRepo       user.Repository
	schRepo       school.Repository
	rosterRepo    roster.Repository
	academicsRepo academics.Repository
	rtRepo        auth.Repository

	usrSvc       *user.Service
	authSvc      *auth.Service
	schSvc       *school.Service
	rosterSvc    *roster.Service
	academicsSvc *academics.Service
	financeSvc   *finance.Service
	activitySvc  *activity.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	conf := testutil.NewConfig()

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	ta := &testApp{
		conf:          conf,
		usrRepo:       dummydb.NewUserRepository(db),
		schRepo:       dummydb.NewSchoolRepository(db),
		rosterRepo:    dummydb.NewRosterRepository(db),
		academicsRepo: dummydb.NewAcademicsRepository(db),
		rtRepo:        dummydb.NewRefreshTokenRepository(db),
	}
	ta.usrSvc = user.NewService(ta.usrRepo)
	ta.authSvc = auth.NewService(conf, ta.rtRepo, ta.usrRepo)
	ta.schSvc = school.NewService(conf, ta.schRepo, ta.usrSvc, emailsvc.NewConsoleServiceMock(conf))
	ta.rosterSvc = roster.NewService(ta.rosterRepo, ta.usrSvc)
	ta.academicsSvc = academics.NewService(ta.academicsRepo)
	ta.financeSvc = finance.NewService(dummydb.NewFinanceRepository(db))
	ta.activitySvc = activity.NewService(dummydb.NewActivityRepository(db))

	ta.app = echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         testLogger{t},
			Validate:       validate,
			Translator:     translator,
			AuthSvc:        ta.authSvc,
			UserSvc:        ta.usrSvc,
			SchoolSvc:      ta.schSvc,
			RosterSvc:      ta.rosterSvc,
			AcademicsSvc:   ta.academicsSvc,
			FinanceSvc:     ta.financeSvc,
			ActivitySvc:    ta.activitySvc,
		},
	)
	return ta
}

func (ta *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := auth.NewIssuer(ta.conf).AccessToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// createSchoolWithAdmin seeds a tenant: the school plus its admin account.
func (ta *testApp) createSchoolWithAdmin(t *testing.T, name, email string) (school.School, user.User) {
	t.Helper()
	sch := testutil.CreateSchool(t, ta.schRepo, name, email)
	adm := testutil.CreateUser(t, ta.usrRepo, email, "Str0ngPwd!", user.RoleAdmin, sch.ID)
	return sch, adm
}

type testLogger struct{ t *testing.T }

func (l testLogger) Enable(enabled bool)                   {}
func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
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

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
