package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/clinical-scores/internal/calculators"
	"github.com/mind-engage/clinical-scores/internal/config"
	"github.com/mind-engage/clinical-scores/internal/logging"
	"github.com/mind-engage/clinical-scores/pkg/score"
)

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

type RouterSuite struct {
	suite.Suite
	cfg     config.Config
	reg     *score.Registry
	handler http.Handler
}

func testConfig() config.Config {
	return config.Config{
		Mode:               config.ModeOffline,
		RequestTimeout:     5 * time.Second,
		CORSOriginsOffline: []string{"http://localhost:3000"},
	}
}

func (suite *RouterSuite) SetupTest() {
	reg, err := calculators.NewRegistry()
	suite.Require().NoError(err)
	suite.reg = reg
	suite.cfg = testConfig()
	suite.handler = suite.router(suite.cfg, reg)
}

func (suite *RouterSuite) router(cfg config.Config, reg *score.Registry) http.Handler {
	log, err := logging.NewWithOutput(io.Discard, "error", "text")
	suite.Require().NoError(err)
	return NewRouter(cfg, reg, RouterOptions{Version: "test", Log: log})
}

func (suite *RouterSuite) do(method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	suite.handler.ServeHTTP(rec, req)
	return rec
}

func (suite *RouterSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (suite *RouterSuite) TestCURB65() {
	rec := suite.do(http.MethodPost, "/curb_65",
		`{"confusion":false,"urea":25.0,"respiratory_rate":32,"systolic_bp":85,"diastolic_bp":55,"age":78}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	out := suite.decode(rec)
	suite.Equal(3.0, out["result"])
	suite.Equal("High Risk", out["stage"])
	suite.Equal("points", out["unit"])
	suite.NotEmpty(out["interpretation"])
	suite.NotEmpty(out["stage_description"])
}

func (suite *RouterSuite) TestBristol() {
	rec := suite.do(http.MethodPost, "/bristol_stool_form_scale", `{"stool_type":4}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	out := suite.decode(rec)
	suite.Equal("Normal (Ideal)", out["stage"])
	suite.Equal("Normal", out["transit_time"])
}

func (suite *RouterSuite) TestHorowitz() {
	rec := suite.do(http.MethodPost, "/horowitz_index", `{"pao2":75,"fio2":0.5}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	out := suite.decode(rec)
	suite.Equal(150.0, out["result"])
	suite.Equal("Moderate ARDS", out["stage"])
}

func (suite *RouterSuite) TestHAPS() {
	rec := suite.do(http.MethodPost, "/haps",
		`{"peritonitis":"absent","creatinine_elevated":"no","hematocrit_elevated":"no"}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	out := suite.decode(rec)
	suite.Equal(0.0, out["result"])
	suite.Equal("Harmless", out["stage"])
}

func (suite *RouterSuite) TestMalformedHorowitz() {
	rec := suite.do(http.MethodPost, "/horowitz_index", `{"pao2":75,"fio2":50}`)
	suite.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	out := suite.decode(rec)
	suite.Equal("ValidationError", out["error"])
	details := out["details"].(map[string]any)
	suite.Equal("fio2", details["field"])
	suite.Equal("lte", details["constraint"])
	suite.NotContains(rec.Body.String(), "goroutine")
}

func (suite *RouterSuite) TestGenericCalculateMatchesDirectRoute() {
	body := `{"stool_type":6}`
	direct := suite.do(http.MethodPost, "/bristol_stool_form_scale", body)
	generic := suite.do(http.MethodPost, "/api/bristol_stool_form_scale/calculate", body)
	suite.Require().Equal(http.StatusOK, generic.Code)
	suite.JSONEq(direct.Body.String(), generic.Body.String())
}

func (suite *RouterSuite) TestUnknownCalculator() {
	rec := suite.do(http.MethodPost, "/api/apache_ii/calculate", `{}`)
	suite.Equal(http.StatusNotFound, rec.Code)
	out := suite.decode(rec)
	suite.Equal("CalculationError", out["error"])
	suite.Equal("apache_ii", out["details"].(map[string]any)["score_id"])
}

func (suite *RouterSuite) TestBodyErrors() {
	for _, body := range []string{``, `not json`, `[1,2]`, `{"stool_type":`} {
		rec := suite.do(http.MethodPost, "/bristol_stool_form_scale", body)
		suite.Equal(http.StatusUnprocessableEntity, rec.Code, body)
		out := suite.decode(rec)
		suite.Equal("body", out["details"].(map[string]any)["field"], body)
	}

	big := `{"stool_type":4,"pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	rec := suite.do(http.MethodPost, "/bristol_stool_form_scale", big)
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal("size", suite.decode(rec)["details"].(map[string]any)["constraint"])
}

func (suite *RouterSuite) TestMissingAndEnum() {
	rec := suite.do(http.MethodPost, "/haps", `{"peritonitis":"absent","creatinine_elevated":"no"}`)
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal("hematocrit_elevated", suite.decode(rec)["details"].(map[string]any)["field"])

	rec = suite.do(http.MethodPost, "/haps",
		`{"peritonitis":"maybe","creatinine_elevated":"no","hematocrit_elevated":"no"}`)
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	details := suite.decode(rec)["details"].(map[string]any)
	suite.Equal("oneof", details["constraint"])
	suite.Equal("maybe", details["value"])
}

func (suite *RouterSuite) TestConsistencyCheck() {
	rec := suite.do(http.MethodPost, "/curb_65",
		`{"confusion":false,"urea":10,"respiratory_rate":16,"systolic_bp":80,"diastolic_bp":95,"age":50}`)
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	details := suite.decode(rec)["details"].(map[string]any)
	suite.Equal("diastolic_bp", details["field"])
	suite.Equal("consistency", details["constraint"])
}

func (suite *RouterSuite) TestCatalog() {
	rec := suite.do(http.MethodGet, "/api/scores", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	out := suite.decode(rec)
	suite.Equal(float64(suite.reg.Len()), out["total"])
	suite.Len(out["scores"], suite.reg.Len())

	rec = suite.do(http.MethodGet, "/api/scores?category=pulmonology", "")
	out = suite.decode(rec)
	suite.Equal(4.0, out["total"])

	rec = suite.do(http.MethodGet, "/api/scores?search=Horowitz", "")
	out = suite.decode(rec)
	suite.Equal(1.0, out["total"])

	rec = suite.do(http.MethodGet, "/api/scores?category=oncology", "")
	out = suite.decode(rec)
	suite.Equal(0.0, out["total"])
	suite.Equal([]any{}, out["scores"])

	rec = suite.do(http.MethodGet, "/api/categories", "")
	suite.JSONEq(`{"categories":["cardiology","gastroenterology","nephrology","pulmonology"],"total":4}`, rec.Body.String())
}

func (suite *RouterSuite) TestMetadata() {
	rec := suite.do(http.MethodGet, "/api/scores/horowitz_index", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	out := suite.decode(rec)
	suite.Equal("horowitz_index", out["id"])
	suite.NotEmpty(out["parameters"])
	suite.Len(out["stages"], 4)

	rec = suite.do(http.MethodGet, "/api/scores/nope", "")
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("ScoreNotFound", suite.decode(rec)["error"])
}

func (suite *RouterSuite) TestValidateEndpoint() {
	rec := suite.do(http.MethodGet, "/api/scores/haps/validate", "")
	suite.JSONEq(`{"score_id":"haps","score_exists":true,"calculator_available":true,"status":"ready"}`, rec.Body.String())
	rec = suite.do(http.MethodGet, "/api/scores/nope/validate", "")
	suite.JSONEq(`{"score_id":"nope","score_exists":false,"calculator_available":false,"status":"not_found"}`, rec.Body.String())
}

func (suite *RouterSuite) TestProbesAndBanner() {
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/healthz", "").Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/readyz", "").Code)

	out := suite.decode(suite.do(http.MethodGet, "/", ""))
	suite.Equal("clinical-scores", out["service"])
	suite.Equal(float64(suite.reg.Len()), out["calculators"])

	suite.handler = suite.router(suite.cfg, score.NewRegistry())
	suite.Equal(http.StatusServiceUnavailable, suite.do(http.MethodGet, "/readyz", "").Code)
}

// panicky is a Calculator whose Calculate always panics.
type panicky struct{}

func (panicky) Info() score.Info         { return score.Info{ID: "panicky", Category: "test"} }
func (panicky) Metadata() score.Metadata { return score.Metadata{Info: panicky{}.Info()} }
func (panicky) Calculate(json.RawMessage) (score.Result, error) {
	panic("secret stack detail")
}

func (suite *RouterSuite) TestInternalErrorHidesCause() {
	reg := score.NewRegistry()
	suite.Require().NoError(reg.Register(panicky{}))
	suite.handler = suite.router(suite.cfg, reg)

	rec := suite.do(http.MethodPost, "/panicky", `{}`)
	suite.Equal(http.StatusInternalServerError, rec.Code)
	out := suite.decode(rec)
	suite.Equal("InternalServerError", out["error"])
	suite.NotEmpty(out["details"].(map[string]any)["incident_id"])
	suite.NotContains(rec.Body.String(), "secret stack detail")
}

func (suite *RouterSuite) TestCORS() {
	rec := suite.do(http.MethodOptions, "/haps", "",
		"Origin", "http://localhost:3000",
		"Access-Control-Request-Method", "POST")
	suite.Equal("http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = suite.do(http.MethodOptions, "/haps", "",
		"Origin", "https://evil.example.com",
		"Access-Control-Request-Method", "POST")
	suite.Empty(rec.Header().Get("Access-Control-Allow-Origin"))
}

func (suite *RouterSuite) TestAuthEnabled() {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	suite.Require().NoError(err)
	cfg := suite.cfg
	cfg.EnableAuth = true
	cfg.AuthHMACSecret = "router-secret"
	cfg.TokenTTL = time.Hour
	cfg.ClinicianUser = "dr"
	cfg.ClinicianPassHash = string(hash)
	suite.handler = suite.router(cfg, suite.reg)

	body := `{"stool_type":4}`
	rec := suite.do(http.MethodPost, "/bristol_stool_form_scale", body)
	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.Equal("AuthenticationError", suite.decode(rec)["error"])
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/scores", "").Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/healthz", "").Code)

	rec = suite.do(http.MethodPost, "/auth/login", `{"username":"dr","password":"pw"}`)
	suite.Require().Equal(http.StatusOK, rec.Code)
	tok := suite.decode(rec)["access_token"].(string)
	bearer := "Bearer " + tok

	rec = suite.do(http.MethodPost, "/bristol_stool_form_scale", body, "Authorization", bearer)
	suite.Equal(http.StatusOK, rec.Code)
	rec = suite.do(http.MethodGet, "/api/scores", "", "Authorization", bearer)
	suite.Equal(http.StatusOK, rec.Code)
	rec = suite.do(http.MethodGet, "/auth/me", "", "Authorization", bearer)
	suite.Equal("clinician", suite.decode(rec)["role"])
}
