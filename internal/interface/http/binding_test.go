package handlers

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoatlas/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

func bindJSON(t *testing.T, body string, dst any) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(dst)
}

func TestCityRequestBindsAdultCounts(t *testing.T) {
	body := `{
		"name": "Ahmedabad",
		"city_code": "AMD",
		"phone_code": "079",
		"population": 8000,
		"avg_age": 29.5,
		"num_of_adults_males": 2500,
		"num_of_adults_females": 2400
	}`
	var req cityRequest
	require.NoError(t, bindJSON(t, body, &req))
	assert.Equal(t, int64(2500), req.AdultMales)
	assert.Equal(t, int64(2400), req.AdultFemales)
}

func TestCityRequestRejectsNegativeAdultCounts(t *testing.T) {
	body := `{
		"name": "Ahmedabad",
		"city_code": "AMD",
		"phone_code": "079",
		"population": 8000,
		"avg_age": 29.5,
		"num_of_adults_males": -1,
		"num_of_adults_females": 2400
	}`
	var req cityRequest
	err := bindJSON(t, body, &req)
	require.Error(t, err)
	details := validation.ToDetails(err)
	assert.Contains(t, details, "num_of_adults_males")
}

func TestCountryRequestCurrSymbolIsOneCharacter(t *testing.T) {
	payload := func(sym string) string {
		return `{"name": "India", "country_code": "IND", "curr_symbol": "` + sym + `", "phone_code": "91"}`
	}

	var req countryRequest
	require.NoError(t, bindJSON(t, payload("₹"), &req))
	assert.Equal(t, "₹", req.CurrSymbol)

	// a currency code is not a symbol; rejecting it here keeps the payload
	// from hitting the single-character column and failing with a 500
	err := bindJSON(t, payload("INR"), &req)
	require.Error(t, err)
	details := validation.ToDetails(err)
	assert.Contains(t, details, "curr_symbol")
}

func TestCountryPatchCurrSymbolOptionalButOneCharacter(t *testing.T) {
	var req countryPatchRequest
	require.NoError(t, bindJSON(t, `{"country_code": "IND", "name": "Bharat"}`, &req))
	assert.Nil(t, req.CurrSymbol)

	require.NoError(t, bindJSON(t, `{"country_code": "IND", "curr_symbol": "€"}`, &req))
	require.NotNil(t, req.CurrSymbol)
	assert.Equal(t, "€", *req.CurrSymbol)

	err := bindJSON(t, `{"country_code": "IND", "curr_symbol": "EUR"}`, &req)
	require.Error(t, err)
	assert.Contains(t, validation.ToDetails(err), "curr_symbol")
}

func TestNestedCountryRequestCurrSymbolIsOneCharacter(t *testing.T) {
	body := `{
		"name": "India",
		"country_code": "IND",
		"curr_symbol": "INR",
		"phone_code": "91",
		"states": []
	}`
	var req nestedCountryRequest
	err := bindJSON(t, body, &req)
	require.Error(t, err)
	assert.Contains(t, validation.ToDetails(err), "curr_symbol")
}
