package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/buildsight/backend/internal/storage/models"
)

const defaultCategory = "Other"

// ExtractBudget derives spend, burn and per-category cost metrics. Monetary
// values must be non-negative; a violation aborts the whole computation.
func ExtractBudget(snap *models.ProjectSnapshot, now time.Time) (BudgetMetrics, error) {
	p := snap.Project

	if p.OriginalBudget < 0 || p.CurrentBudget < 0 || p.SpentAmount < 0 {
		return BudgetMetrics{}, fmt.Errorf("project %s has negative monetary value", p.ID)
	}

	m := BudgetMetrics{
		OriginalBudget: p.OriginalBudget,
		CurrentBudget:  p.CurrentBudget,
		SpentAmount:    p.SpentAmount,
	}

	for _, item := range snap.BudgetItems {
		if item.EstimatedTotal < 0 || item.ActualTotal < 0 {
			return BudgetMetrics{}, fmt.Errorf("budget item %s has negative monetary value", item.ID)
		}
		m.CommittedAmount += item.EstimatedTotal
	}

	m.RemainingBudget = m.CurrentBudget - m.SpentAmount
	m.Variance = m.SpentAmount - m.OriginalBudget
	if m.OriginalBudget > 0 {
		m.VariancePercentage = m.Variance / m.OriginalBudget * 100
	}

	m.BurnRatePerDay = burnRate(m.SpentAmount, projectStartDate(&p), now)

	// Fixed 10% contingency on the remaining budget, not on the total.
	m.PredictedFinalCost = m.SpentAmount + m.RemainingBudget*1.1

	m.CostByCategory = groupCostByCategory(snap.BudgetItems)

	return m, nil
}

// burnRate is spend per elapsed day since project start; zero without a start
// date. Elapsed time under a day counts as one day.
func burnRate(spent float64, start *time.Time, now time.Time) float64 {
	if start == nil {
		return 0
	}
	elapsedDays := math.Max(1, now.Sub(*start).Hours()/24)
	return spent / elapsedDays
}

// groupCostByCategory buckets line items by category in first-seen order.
// Items without a category fall into "Other".
func groupCostByCategory(items []models.BudgetLineItem) []models.CategoryCost {
	index := make(map[string]int)

	var costs []models.CategoryCost
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = defaultCategory
		}

		i, seen := index[category]
		if !seen {
			i = len(costs)
			index[category] = i
			costs = append(costs, models.CategoryCost{Category: category})
		}

		costs[i].Budgeted += item.EstimatedTotal
		costs[i].Spent += item.ActualTotal
	}

	for i := range costs {
		costs[i].Variance = costs[i].Spent - costs[i].Budgeted
		if costs[i].Budgeted > 0 {
			costs[i].VariancePercentage = costs[i].Variance / costs[i].Budgeted * 100
		}
	}

	return costs
}
