package filter_test

import (
	"net/url"
	"testing"

	"github.com/Tabo-ecom/grandline-go/filter"
	"github.com/stretchr/testify/require"
)

func TestDefaultsToThreeDayWindow(t *testing.T) {
	filters := filter.New()
	require.Equal(t, filter.Window3, filters.Days())
	require.Equal(t, url.Values{"days": {"3"}}, filters.Params())
}

func TestEmptyFieldsAreOmitted(t *testing.T) {
	filters := filter.New()
	require.NoError(t, filters.SetDays(filter.Window7))
	filters.SetCountry("")
	filters.SetStore("")
	filters.SetProductGroup("")

	require.Equal(t, url.Values{"days": {"7"}}, filters.Params())
}

func TestEachSetterReplacesOneField(t *testing.T) {
	filters := filter.New()
	filters.SetCountry("CO")
	filters.SetStore("12")
	filters.SetProductGroup("skincare")

	require.Equal(t, url.Values{
		"days":          {"3"},
		"country":       {"CO"},
		"store_id":      {"12"},
		"product_group": {"skincare"},
	}, filters.Params())

	filters.SetCountry("MX")
	params := filters.Params()
	require.Equal(t, "MX", params.Get("country"))
	require.Equal(t, "12", params.Get("store_id"))
	require.Equal(t, "skincare", params.Get("product_group"))
}

func TestParamsDeterministicBetweenMutations(t *testing.T) {
	filters := filter.New()
	require.NoError(t, filters.SetDays(filter.Window15))
	filters.SetCountry("CO")

	first := filters.Params()
	second := filters.Params()
	require.Equal(t, first, second)
	require.Equal(t, first.Encode(), second.Encode())
}

func TestSetDaysRejectsValuesOutsideEnum(t *testing.T) {
	filters := filter.New()
	err := filters.SetDays(filter.Window(10))
	require.ErrorIs(t, err, filter.InvalidWindowErr)
	require.Equal(t, filter.Window3, filters.Days()) // state untouched
}
