package services

import (
	"math"
	"reflect"
	"testing"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
)

func TestComputeMetricsDeterministic(t *testing.T) {
	state := constants.DefaultScenario()
	first := ComputeMetrics(state)
	second := ComputeMetrics(state)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical bundles for identical state")
	}
}

func TestNOIAndCapRateIdentity(t *testing.T) {
	state := constants.DefaultScenario()
	m := ComputeMetrics(state)
	if m.NOI != m.EffectiveRent-m.TotalCarryCost {
		t.Errorf("Expected NOI %v but got %v", m.EffectiveRent-m.TotalCarryCost, m.NOI)
	}
	expectedCap := m.NOI / state.PropertyValue * 100
	if m.CapRate != expectedCap {
		t.Errorf("Expected cap rate %v but got %v", expectedCap, m.CapRate)
	}
}

func TestZeroLTVReportsInfiniteDSCR(t *testing.T) {
	state := constants.DefaultScenario()
	state.LTVRatio = 0
	m := ComputeMetrics(state)
	if m.LoanAmount != 0 {
		t.Errorf("Expected zero loan but got %v", m.LoanAmount)
	}
	if m.MonthlyPayment != 0 {
		t.Errorf("Expected zero payment but got %v", m.MonthlyPayment)
	}
	if m.AnnualDebtService != 0 {
		t.Errorf("Expected zero debt service but got %v", m.AnnualDebtService)
	}
	if !math.IsInf(float64(m.DSCR), 1) {
		t.Errorf("Expected infinite DSCR but got %v", m.DSCR)
	}
}

func TestZeroCashInvestedYieldsZeroCashOnCash(t *testing.T) {
	var state types.ScenarioState
	state.HoldingStructure = types.StructurePersonal
	m := ComputeMetrics(state)
	if m.TotalCashInvested != 0 {
		t.Errorf("Expected zero cash invested but got %v", m.TotalCashInvested)
	}
	if m.CashOnCash != 0 {
		t.Errorf("Expected zero cash-on-cash but got %v", m.CashOnCash)
	}
}

func TestScarcityBonusSum(t *testing.T) {
	state := constants.DefaultScenario()
	state.PrivateBeach = true
	state.HeritageStatus = true
	state.StarchitectDesign = true
	state.UniqueView = true
	m := ComputeMetrics(state)
	if m.ScarcityBonus != 3.6 {
		t.Errorf("Expected scarcity bonus 3.6 but got %v", m.ScarcityBonus)
	}
	if m.EffectiveAppreciation != state.BaseAppreciationRate+3.6 {
		t.Errorf("Expected effective appreciation %v but got %v", state.BaseAppreciationRate+3.6, m.EffectiveAppreciation)
	}
}

func TestSolveIRRSinglePeriod(t *testing.T) {
	rate := solveIRR([]float64{-100, 110})
	if math.Abs(rate-0.10) > 1e-6 {
		t.Errorf("Expected IRR near 0.10 but got %v", rate)
	}
}

func TestProjectionLengthMatchesHoldPeriod(t *testing.T) {
	state := constants.DefaultScenario()
	state.HoldPeriodYears = 7
	m := ComputeMetrics(state)
	if len(m.Projection) != 7 {
		t.Errorf("Expected 7 projection rows but got %d", len(m.Projection))
	}
	last := m.Projection[6]
	if last.Year != 7 {
		t.Errorf("Expected final year 7 but got %d", last.Year)
	}
	if last.PropertyValue != m.ExitValue {
		t.Errorf("Expected final projected value %v to equal exit value %v", last.PropertyValue, m.ExitValue)
	}
}

func TestRemainingBalanceEndpoints(t *testing.T) {
	loan := 9_000_000.0
	if got := remainingBalance(loan, 6.5, 25, 0); got != loan {
		t.Errorf("Expected full balance at year 0 but got %v", got)
	}
	if got := remainingBalance(loan, 6.5, 25, 25); got != 0 {
		t.Errorf("Expected zero balance at maturity but got %v", got)
	}
	mid := remainingBalance(loan, 6.5, 25, 10)
	if mid <= 0 || mid >= loan {
		t.Errorf("Expected mid-term balance between 0 and %v but got %v", loan, mid)
	}
}

func TestStructureComparisonCoversAllStructures(t *testing.T) {
	m := ComputeMetrics(constants.DefaultScenario())
	if len(m.StructureComparison) != 4 {
		t.Errorf("Expected 4 structure rows but got %d", len(m.StructureComparison))
	}
	seen := map[types.HoldingStructure]bool{}
	for _, s := range m.StructureComparison {
		seen[s.Structure] = true
	}
	for _, s := range constants.AllStructures {
		if !seen[s] {
			t.Errorf("Expected structure %s in comparison", s)
		}
	}
}

func TestShockGridDimensions(t *testing.T) {
	m := ComputeMetrics(constants.DefaultScenario())
	if len(m.ShockGrid) != 35 {
		t.Errorf("Expected 35 shock cells but got %d", len(m.ShockGrid))
	}
	// The unshifted cell must reproduce the base scenario's return.
	for _, c := range m.ShockGrid {
		if c.RateShift == 0 && c.AppreciationShift == 0 {
			if math.IsNaN(c.ReturnHold) {
				t.Errorf("Expected defined hold return in the zero-shift cell")
			}
			return
		}
	}
	t.Errorf("Expected a zero-shift cell in the grid")
}

func TestNoNaNInBundle(t *testing.T) {
	var state types.ScenarioState
	m := ComputeMetrics(state)
	for _, v := range []float64{m.NOI, m.CapRate, m.CashOnCash, m.IRRPercent, m.BreakEvenAppreciation, m.RequiredAppreciation, m.CarryRatio} {
		if math.IsNaN(v) {
			t.Errorf("Expected no NaN in bundle for zero state, got NaN")
		}
	}
}

func TestSolveIRRDegenerateVector(t *testing.T) {
	if got := solveIRR([]float64{-250_000}); got != 0 {
		t.Errorf("Expected 0 for a single-flow vector but got %v", got)
	}
	if got := solveIRR(nil); got != 0 {
		t.Errorf("Expected 0 for an empty vector but got %v", got)
	}
}

func TestZeroHoldPeriodYieldsZeroIRR(t *testing.T) {
	state := constants.DefaultScenario()
	state.HoldPeriodYears = 0
	m := ComputeMetrics(state)
	if m.IRRPercent != 0 {
		t.Errorf("Expected IRR 0 for a zero hold period but got %v", m.IRRPercent)
	}
}
