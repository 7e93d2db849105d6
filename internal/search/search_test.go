package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

func f64(v float64) *float64 { return &v }

func fixture() ([]models.Job, uuid.UUID, uuid.UUID) {
	webCat := uuid.New()
	designCat := uuid.New()
	jobs := []models.Job{
		{
			Title:       "React dashboard",
			Description: "SPA with charts",
			CategoryID:  &webCat,
			BudgetMax:   f64(1500),
		},
		{
			Title:       "Logo refresh",
			Description: "brand identity work",
			CategoryID:  &designCat,
			BudgetMax:   f64(400),
		},
		{
			Title:       "React Native app",
			Description: "cross-platform client",
			CategoryID:  &webCat,
			BudgetMax:   f64(5000),
		},
		{
			Title:       "Copy editing",
			Description: "no budget stated",
			CategoryID:  nil,
			BudgetMax:   nil,
		},
	}
	return jobs, webCat, designCat
}

func titles(jobs []models.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Title)
	}
	return out
}

func TestComposeNeutralFilterKeepsEverything(t *testing.T) {
	jobs, _, _ := fixture()
	got := Compose(jobs, Filter{Term: "  ", CategoryID: CategoryAll, Band: BandAll})
	assert.Equal(t, titles(jobs), titles(got))
}

func TestComposeTermMatchesTitleAndDescription(t *testing.T) {
	jobs, _, _ := fixture()

	got := Compose(jobs, Filter{Term: "REACT"})
	assert.Equal(t, []string{"React dashboard", "React Native app"}, titles(got))

	got = Compose(jobs, Filter{Term: "brand"})
	assert.Equal(t, []string{"Logo refresh"}, titles(got))
}

func TestComposeCategory(t *testing.T) {
	jobs, webCat, _ := fixture()
	got := Compose(jobs, Filter{CategoryID: webCat.String()})
	assert.Equal(t, []string{"React dashboard", "React Native app"}, titles(got))

	// uncategorized jobs never match a concrete category
	got = Compose(jobs, Filter{CategoryID: uuid.New().String()})
	assert.Empty(t, got)
}

func TestComposeBudgetBands(t *testing.T) {
	jobs, _, _ := fixture()

	assert.Equal(t, []string{"Logo refresh"}, titles(Compose(jobs, Filter{Band: BandLow})))
	assert.Equal(t, []string{"React dashboard"}, titles(Compose(jobs, Filter{Band: BandMedium})))
	assert.Equal(t, []string{"React Native app"}, titles(Compose(jobs, Filter{Band: BandHigh})))
}

func TestComposeNilBudgetExcludedFromBands(t *testing.T) {
	jobs, _, _ := fixture()
	for _, band := range []BudgetBand{BandLow, BandMedium, BandHigh} {
		for _, j := range Compose(jobs, Filter{Band: band}) {
			assert.NotNil(t, j.BudgetMax, "band %s leaked a job without budget_max", band)
		}
	}
	// "all" keeps it
	assert.Contains(t, titles(Compose(jobs, Filter{Band: BandAll})), "Copy editing")
}

func TestComposeBandBoundaries(t *testing.T) {
	jobs := []models.Job{
		{Title: "at 500", BudgetMax: f64(500)},
		{Title: "just above 500", BudgetMax: f64(500.01)},
		{Title: "at 2000", BudgetMax: f64(2000)},
		{Title: "just above 2000", BudgetMax: f64(2000.01)},
	}

	assert.Equal(t, []string{"at 500"}, titles(Compose(jobs, Filter{Band: BandLow})))
	assert.Equal(t, []string{"just above 500", "at 2000"}, titles(Compose(jobs, Filter{Band: BandMedium})))
	assert.Equal(t, []string{"just above 2000"}, titles(Compose(jobs, Filter{Band: BandHigh})))
}

func TestComposeConjunctionAndOrder(t *testing.T) {
	jobs, webCat, _ := fixture()
	got := Compose(jobs, Filter{Term: "react", CategoryID: webCat.String(), Band: BandMedium})
	assert.Equal(t, []string{"React dashboard"}, titles(got))

	// surviving elements keep their relative order
	all := Compose(jobs, Filter{Term: "react"})
	assert.Equal(t, []string{"React dashboard", "React Native app"}, titles(all))
}

func TestComposeIdempotent(t *testing.T) {
	jobs, webCat, _ := fixture()
	f := Filter{Term: "react", CategoryID: webCat.String(), Band: BandAll}

	once := Compose(jobs, f)
	twice := Compose(once, f)
	assert.Equal(t, titles(once), titles(twice))
}

func TestComposeDoesNotMutateInput(t *testing.T) {
	jobs, _, _ := fixture()
	before := titles(jobs)
	Compose(jobs, Filter{Term: "react"})
	assert.Equal(t, before, titles(jobs))
}
