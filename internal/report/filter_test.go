package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"northwind-dashboard/internal/models"
)

func buildSample(t *testing.T) *Report {
	t.Helper()
	r, err := Build(sampleTables(), Options{})
	require.NoError(t, err)
	return r
}

func TestFilter_FullSelectionIsIdentity(t *testing.T) {
	r := buildSample(t)

	filtered := Filter(r.SalesDetail, AllSelection(r))
	require.Equal(t, r.SalesDetail, filtered)
}

func TestFilter_EmptyCountriesSelectsNothing(t *testing.T) {
	r := buildSample(t)

	for _, years := range [][]int{nil, {}, r.Years, {2012}} {
		filtered := Filter(r.SalesDetail, Selection{Countries: []string{}, Years: years})
		require.Empty(t, filtered)
	}
}

func TestFilter_EmptyYearsSelectsNothing(t *testing.T) {
	r := buildSample(t)

	filtered := Filter(r.SalesDetail, Selection{Countries: r.Countries})
	require.Empty(t, filtered)
}

func TestFilter_Conjunctive(t *testing.T) {
	r := buildSample(t)

	filtered := Filter(r.SalesDetail, Selection{Countries: []string{"France"}, Years: []int{2013}})
	require.Len(t, filtered, 1)
	require.Equal(t, 3, filtered[0].OrderID)

	// Germany only has 2013 sales
	filtered = Filter(r.SalesDetail, Selection{Countries: []string{"Germany"}, Years: []int{2012}})
	require.Empty(t, filtered)
}

func TestFilter_UnknownValuesIgnored(t *testing.T) {
	r := buildSample(t)

	filtered := Filter(r.SalesDetail, Selection{Countries: []string{"Atlantis", "Germany"}, Years: []int{1999, 2013}})
	require.Len(t, filtered, 1)
	require.Equal(t, "Germany", filtered[0].Country)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	r := buildSample(t)
	before := append([]models.SalesDetail(nil), r.SalesDetail...)

	_ = Filter(r.SalesDetail, Selection{Countries: []string{"France"}, Years: []int{2012}})
	require.Equal(t, before, r.SalesDetail)
}

func TestProject(t *testing.T) {
	r := buildSample(t)

	p := Project(r.SalesDetail, Selection{Countries: []string{"France"}, Years: r.Years})
	require.Len(t, p.SalesDetail, 3)
	require.Equal(t, "366", p.TotalSales.String())

	require.Equal(t, []int{2012, 2013}, []int{p.SalesByYear[0].Year, p.SalesByYear[1].Year})
	require.Equal(t, "266", p.SalesByYear[0].TotalSales.String())
	require.Equal(t, "100", p.SalesByYear[1].TotalSales.String())

	require.Len(t, p.SalesByCountry, 1)
	require.Equal(t, "France", p.SalesByCountry[0].Country)

	require.Len(t, p.CountryYear, 2)
	require.Equal(t, "France", p.CountryYear[0].Country)
	require.Equal(t, 2012, p.CountryYear[0].Year)
	require.Equal(t, 2013, p.CountryYear[1].Year)
}

func TestProject_FullSelectionMatchesBuild(t *testing.T) {
	r := buildSample(t)

	p := Project(r.SalesDetail, AllSelection(r))
	require.Equal(t, r.SalesByYear, p.SalesByYear)
	require.Equal(t, r.SalesByCountry, p.SalesByCountry)
}

func TestProject_EmptySelection(t *testing.T) {
	r := buildSample(t)

	p := Project(r.SalesDetail, Selection{})
	require.Empty(t, p.SalesDetail)
	require.Empty(t, p.SalesByYear)
	require.Empty(t, p.SalesByCountry)
	require.Empty(t, p.CountryYear)
	require.True(t, p.TotalSales.IsZero())
}

func TestAllSelection_Copies(t *testing.T) {
	r := buildSample(t)

	sel := AllSelection(r)
	sel.Countries[0] = "Changed"
	require.Equal(t, "France", r.Countries[0])
}
