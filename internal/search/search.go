// Package search filters an already-fetched job collection. It performs no
// store access and preserves the relative order of surviving elements.
package search

import (
	"strings"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

type BudgetBand string

const (
	BandAll    BudgetBand = "all"
	BandLow    BudgetBand = "low"    // budget_max <= 500
	BandMedium BudgetBand = "medium" // 500 < budget_max <= 2000
	BandHigh   BudgetBand = "high"   // budget_max > 2000
)

// CategoryAll is the sentinel for "no category filter".
const CategoryAll = "all"

type Filter struct {
	Term       string
	CategoryID string
	Band       BudgetBand
}

// Compose applies the filter and returns a new slice. The predicate is the
// AND of the term, category and budget-band matches; an empty term, the
// "all" category and the "all" band each match everything.
func Compose(jobs []models.Job, f Filter) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if matchesTerm(job, f.Term) && matchesCategory(job, f.CategoryID) && matchesBand(job, f.Band) {
			out = append(out, job)
		}
	}
	return out
}

func matchesTerm(job models.Job, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(job.Title), term) ||
		strings.Contains(strings.ToLower(job.Description), term)
}

func matchesCategory(job models.Job, categoryID string) bool {
	if categoryID == "" || categoryID == CategoryAll {
		return true
	}
	return job.CategoryID != nil && job.CategoryID.String() == categoryID
}

// A job with no budget_max is excluded from every non-"all" band.
func matchesBand(job models.Job, band BudgetBand) bool {
	if band == "" || band == BandAll {
		return true
	}
	if job.BudgetMax == nil {
		return false
	}
	max := *job.BudgetMax
	switch band {
	case BandLow:
		return max <= 500
	case BandMedium:
		return max > 500 && max <= 2000
	case BandHigh:
		return max > 2000
	}
	return false
}
