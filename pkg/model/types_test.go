package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetAlertHasFired(t *testing.T) {
	a := &BudgetAlert{Thresholds: []float64{50, 80, 100}, Fired: []float64{50}}

	assert.True(t, a.HasFired(50))
	assert.False(t, a.HasFired(80))
	assert.False(t, a.HasFired(100))
}

func TestComputeMetrics(t *testing.T) {
	p := &Project{BudgetBRL: 100000, AreaM2: 80}

	m := ComputeMetrics(p, 60000)
	assert.Equal(t, 100000.0, m.BudgetBRL)
	assert.Equal(t, 60000.0, m.TotalSpent)
	assert.Equal(t, 40000.0, m.Balance)
	assert.Equal(t, 750.0, m.CostPerM2)
}

func TestComputeMetricsZeroArea(t *testing.T) {
	p := &Project{BudgetBRL: 50000}

	m := ComputeMetrics(p, 10000)
	assert.Equal(t, 0.0, m.CostPerM2)
	assert.Equal(t, 40000.0, m.Balance)
}
