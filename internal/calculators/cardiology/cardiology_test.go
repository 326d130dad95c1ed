package cardiology

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mind-engage/clinical-scores/pkg/score"
)

func TestCardiologySuite(t *testing.T) {
	suite.Run(t, new(CardiologySuite))
}

type CardiologySuite struct {
	suite.Suite
	reg *score.Registry
}

func (suite *CardiologySuite) SetupSuite() {
	suite.reg = score.NewRegistry()
	suite.Require().NoError(Register(suite.reg))
}

func body(age int, sex string, yes ...string) map[string]any {
	b := map[string]any{
		"age": age, "sex": sex,
		"congestive_heart_failure":   false,
		"hypertension":               false,
		"stroke_tia_thromboembolism": false,
		"vascular_disease":           false,
		"diabetes":                   false,
	}
	for _, k := range yes {
		b[k] = true
	}
	return b
}

func (suite *CardiologySuite) calc(b map[string]any) (score.Result, error) {
	raw, err := json.Marshal(b)
	suite.Require().NoError(err)
	return suite.reg.Invoke(context.Background(), "cha2ds2_vasc", raw)
}

func (suite *CardiologySuite) mustCalc(b map[string]any) score.Result {
	res, err := suite.calc(b)
	suite.Require().NoError(err)
	return res
}

func (suite *CardiologySuite) TestLowRisk() {
	res := suite.mustCalc(body(50, "male"))
	suite.Equal(0, res.Value)
	suite.Equal("Low Risk", res.Stage)
	suite.Equal(0.0, res.Extra["annual_stroke_risk"])
}

func (suite *CardiologySuite) TestFemaleOnly() {
	res := suite.mustCalc(body(50, "female"))
	suite.Equal(1, res.Value)
	suite.Equal("Low-Moderate Risk", res.Stage)
	suite.Equal(1.3, res.Extra["annual_stroke_risk"])
}

func (suite *CardiologySuite) TestAgeBands() {
	suite.Equal(0, suite.mustCalc(body(64, "male")).Value)
	suite.Equal(1, suite.mustCalc(body(65, "male")).Value)
	suite.Equal(1, suite.mustCalc(body(74, "male")).Value)
	suite.Equal(2, suite.mustCalc(body(75, "male")).Value)
}

func (suite *CardiologySuite) TestMaximum() {
	res := suite.mustCalc(body(80, "female",
		"congestive_heart_failure", "hypertension", "stroke_tia_thromboembolism", "vascular_disease", "diabetes"))
	suite.Equal(9, res.Value)
	suite.Equal("Moderate-High Risk", res.Stage)
	suite.Equal(15.2, res.Extra["annual_stroke_risk"])
	suite.Contains(res.Interpretation, "15.2%")
}

func (suite *CardiologySuite) TestBooleanHistoryFields() {
	raw := json.RawMessage(`{"age": 75, "sex": "female", "congestive_heart_failure": true,
		"hypertension": true, "stroke_tia_thromboembolism": false, "vascular_disease": false, "diabetes": false}`)
	res, err := suite.reg.Invoke(context.Background(), "cha2ds2_vasc", raw)
	suite.Require().NoError(err)
	suite.Equal(5, res.Value)
	suite.Equal(6.7, res.Extra["annual_stroke_risk"])
}

func (suite *CardiologySuite) TestStrokeRiskAtEight() {
	res := suite.mustCalc(body(80, "female",
		"congestive_heart_failure", "hypertension", "stroke_tia_thromboembolism", "diabetes"))
	suite.Equal(8, res.Value)
	suite.Equal(12.5, res.Extra["annual_stroke_risk"])
}

func (suite *CardiologySuite) TestRangeClosure() {
	flags := []string{"congestive_heart_failure", "hypertension", "stroke_tia_thromboembolism", "vascular_disease", "diabetes"}
	for mask := 0; mask < 1<<len(flags); mask++ {
		var yes []string
		for i, f := range flags {
			if mask&(1<<i) != 0 {
				yes = append(yes, f)
			}
		}
		for _, age := range []int{18, 65, 75, 120} {
			for _, sex := range []string{"male", "female"} {
				v := suite.mustCalc(body(age, sex, yes...)).Value.(int)
				suite.GreaterOrEqual(v, 0)
				suite.LessOrEqual(v, 9)
			}
		}
	}
}

func (suite *CardiologySuite) TestValidation() {
	_, err := suite.calc(body(17, "male"))
	var ve *score.ValidationError
	suite.Require().True(errors.As(err, &ve))
	suite.Equal("age", ve.Field)

	b := body(50, "male")
	b["diabetes"] = "yes"
	_, err = suite.calc(b)
	suite.Require().True(errors.As(err, &ve))
	suite.Equal("diabetes", ve.Field)
	suite.Equal("type", ve.Constraint)
}

func (suite *CardiologySuite) TestPartition() {
	suite.NoError(cha2ds2vascBands.Partition(score.Range{Min: 0, Max: 9}))
}
