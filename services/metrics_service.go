package services

import (
	"math"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
)

/*
Investment Simulator Engine

ComputeMetrics turns one ScenarioState into the full derived-metrics bundle
the simulator UI renders. The pipeline:

1. Carry costs (services, staffing, specialized maintenance, tax, insurance)
2. Effective income after vacancy
3. NOI and cap rate
4. Debt: amortized payment, annual debt service, DSCR
5. Cash-on-cash on total cash invested
6. Scarcity bonus and effective appreciation
7. Year-by-year projection over the hold period
8. Exit waterfall (debt payoff, capital-gains tax, selling costs)
9. IRR via Newton-Raphson on the levered cash-flow vector
10. Carry ratio and break-even appreciation
11. Liquidity (days on market, carry while listed)
12. Required appreciation to hit the target exit profit
13. Four-way holding-structure comparison
14. Macro-shock sensitivity grid (rate x appreciation shifts)

Every division is guarded: a debt-free scenario reports an infinite DSCR,
zero cash invested reports 0% cash-on-cash. Nothing here throws and no NaN
leaves this function.
*/

// Newton-Raphson controls for the IRR solve. Non-convergence is accepted:
// the last estimate is reported as-is.
const (
	irrInitialGuess  = 0.08
	irrMaxIterations = 200
	irrDerivativeEps = 1e-10
	irrRateTolerance = 1e-8
)

// Macro-shock grid axes, percentage-point shifts.
var (
	rateShifts         = []float64{-2, -1, -0.5, 0, 0.5, 1, 2}
	appreciationShifts = []float64{-2, -1, 0, 1, 2}
)

// ComputeMetrics derives the complete metrics bundle for a scenario. Pure
// and deterministic: same state in, bit-identical bundle out.
func ComputeMetrics(state types.ScenarioState) types.MetricsBundle {
	m := types.MetricsBundle{}
	profile := constants.StructureProfiles[state.HoldingStructure]
	region := constants.RegionByID(state.MarketRegion)

	// Step 1: carry costs
	m.LuxuryOpex = state.ConciergeService + state.SecurityService + state.Landscaping +
		state.PoolMaintenance + state.WineCellarClimate + state.SmartHomeSystems +
		state.PropertyManagement
	m.StaffingCost = float64(state.LiveInStaff+state.SecurityTeam+state.PropertyManagers) * state.AvgStaffSalary
	if state.InfinityPool {
		m.SpecializedMaintenance += constants.InfinityPoolUpkeep
	}
	if state.WineClimateControl {
		m.SpecializedMaintenance += constants.WineClimateUpkeep
	}
	if state.SmartHomeUpdates {
		m.SpecializedMaintenance += constants.SmartHomeUpkeep
	}
	m.TotalCarryCost = m.LuxuryOpex + m.StaffingCost + m.SpecializedMaintenance +
		state.PropertyValue*state.PropertyTaxRate/100 + state.AnnualInsurance

	// Step 2: income after vacancy
	m.VacancyLoss = state.GrossAnnualRent * state.VacancyRate / 100
	m.EffectiveRent = state.GrossAnnualRent - m.VacancyLoss

	// Step 3: NOI and cap rate
	m.NOI = m.EffectiveRent - m.TotalCarryCost
	if state.PropertyValue > 0 {
		m.CapRate = m.NOI / state.PropertyValue * 100
	}

	// Step 4: debt
	m.LoanAmount = state.PropertyValue * state.LTVRatio / 100
	m.EquityInvested = state.PropertyValue - m.LoanAmount
	m.MonthlyPayment = monthlyPayment(m.LoanAmount, state.InterestRate, state.LoanTermYears)
	m.AnnualDebtService = m.MonthlyPayment * 12
	if m.AnnualDebtService == 0 {
		m.DSCR = types.InfFloat(math.Inf(1))
	} else {
		m.DSCR = types.InfFloat(m.NOI / m.AnnualDebtService)
	}

	// Step 5: cash-on-cash
	m.AnnualCashFlow = m.NOI - m.AnnualDebtService
	m.TotalCashInvested = m.EquityInvested + state.ClosingCosts + state.RenovationCosts + profile.SetupCost
	if m.TotalCashInvested > 0 {
		m.CashOnCash = m.AnnualCashFlow / m.TotalCashInvested * 100
	}

	// Step 6: scarcity and effective appreciation
	if state.PrivateBeach {
		m.ScarcityBonus += constants.PrivateBeachBonus
	}
	if state.HeritageStatus {
		m.ScarcityBonus += constants.HeritageBonus
	}
	if state.StarchitectDesign {
		m.ScarcityBonus += constants.StarchitectBonus
	}
	if state.UniqueView {
		m.ScarcityBonus += constants.UniqueViewBonus
	}
	m.EffectiveAppreciation = state.BaseAppreciationRate + m.ScarcityBonus

	// Step 7: year-by-year projection
	hold := state.HoldPeriodYears
	m.Projection = make([]types.YearProjection, 0, hold)
	for y := 1; y <= hold; y++ {
		projected := state.PropertyValue * math.Pow(1+m.EffectiveAppreciation/100, float64(y))
		remaining := remainingBalance(m.LoanAmount, state.InterestRate, state.LoanTermYears, y)
		m.Projection = append(m.Projection, types.YearProjection{
			Year:               y,
			PropertyValue:      projected,
			RemainingLoan:      remaining,
			Equity:             projected - remaining,
			CumulativeCashFlow: m.AnnualCashFlow * float64(y),
		})
	}

	// Step 8: exit waterfall
	m.ExitValue = state.PropertyValue * math.Pow(1+m.EffectiveAppreciation/100, float64(hold))
	remainingFinal := remainingBalance(m.LoanAmount, state.InterestRate, state.LoanTermYears, hold)
	m.CapitalGain = m.ExitValue - state.PropertyValue
	m.TaxOnGain = math.Max(0, m.CapitalGain) * profile.CapGainRate
	m.SellingCosts = m.ExitValue * region.BrokerFeePct / 100
	m.NetExitProceeds = m.ExitValue - remainingFinal - m.TaxOnGain - m.SellingCosts
	m.StructureBenefit = profile.YearlyBenefitRate * state.PropertyValue * float64(hold)
	m.NetExitWithBenefit = m.NetExitProceeds + m.StructureBenefit

	// Step 9: IRR on the levered cash flows
	yearlyBenefit := profile.YearlyBenefitRate * state.PropertyValue
	flows := make([]float64, hold+1)
	flows[0] = -m.TotalCashInvested
	for y := 1; y < hold; y++ {
		flows[y] = m.AnnualCashFlow + yearlyBenefit
	}
	if hold >= 1 {
		flows[hold] = m.AnnualCashFlow + m.NetExitWithBenefit
	}
	m.IRRPercent = solveIRR(flows) * 100

	// Step 10: carry ratio and break-even appreciation
	if state.PropertyValue > 0 {
		m.CarryRatio = m.TotalCarryCost / state.PropertyValue * 100
		if hold > 0 {
			upfront := state.ClosingCosts + state.RenovationCosts + profile.SetupCost
			m.BreakEvenAppreciation = (upfront + m.TotalCarryCost*float64(hold) - m.EffectiveRent*float64(hold)) /
				(state.PropertyValue * float64(hold)) * 100
		}
	}

	// Step 11: liquidity
	m.AvgDaysOnMarket = region.DaysOnMarket[state.PriceBracket]
	m.CarryCostDuringListing = m.TotalCarryCost / 365 * m.AvgDaysOnMarket

	// Step 12: required appreciation to hit the target exit profit
	if state.PropertyValue > 0 && hold > 0 {
		targetExitValue := state.PropertyValue + state.TargetExitProfit + m.SellingCosts + m.TaxOnGain
		if targetExitValue > 0 {
			m.RequiredAppreciation = (math.Pow(targetExitValue/state.PropertyValue, 1/float64(hold)) - 1) * 100
		}
	}

	// Step 13: four-way structure comparison on the same gain
	m.StructureComparison = make([]types.StructureExit, 0, len(constants.AllStructures))
	for _, s := range constants.AllStructures {
		p := constants.StructureProfiles[s]
		tax := math.Max(0, m.CapitalGain) * p.CapGainRate
		net := m.ExitValue - remainingFinal - tax - m.SellingCosts
		benefit := p.YearlyBenefitRate * state.PropertyValue * float64(hold)
		m.StructureComparison = append(m.StructureComparison, types.StructureExit{
			Structure:        s,
			SetupCost:        p.SetupCost,
			TaxOnGain:        tax,
			NetExitProceeds:  net,
			StructureBenefit: benefit,
			NetWithBenefit:   net + benefit,
		})
	}

	// Step 14: macro-shock sensitivity grid
	m.ShockGrid = make([]types.ShockCell, 0, len(rateShifts)*len(appreciationShifts))
	for _, rs := range rateShifts {
		for _, as := range appreciationShifts {
			cell := types.ShockCell{RateShift: rs, AppreciationShift: as}
			cell.Return5 = shockedReturn(state, &m, rs, as, 5)
			cell.Return10 = shockedReturn(state, &m, rs, as, 10)
			cell.ReturnHold = shockedReturn(state, &m, rs, as, hold)
			m.ShockGrid = append(m.ShockGrid, cell)
		}
	}

	return m
}

// monthlyPayment computes the fixed-rate amortized payment. A zero loan or
// zero term pays nothing; a zero rate is straight-line.
func monthlyPayment(loan, annualRate float64, termYears int) float64 {
	if loan <= 0 || termYears <= 0 {
		return 0
	}
	n := float64(termYears * 12)
	r := annualRate / 100 / 12
	if r == 0 {
		return loan / n
	}
	pow := math.Pow(1+r, n)
	return loan * (r * pow) / (pow - 1)
}

// remainingBalance is the outstanding principal after a number of years of
// scheduled payments.
func remainingBalance(loan, annualRate float64, termYears, afterYears int) float64 {
	if loan <= 0 || termYears <= 0 {
		return 0
	}
	if afterYears >= termYears {
		return 0
	}
	if afterYears <= 0 {
		return loan
	}
	n := float64(termYears * 12)
	p := float64(afterYears * 12)
	r := annualRate / 100 / 12
	if r == 0 {
		return loan * (1 - p/n)
	}
	pow := math.Pow(1+r, n)
	paid := math.Pow(1+r, p)
	return loan * (pow - paid) / (pow - 1)
}

// solveIRR runs Newton-Raphson on NPV(rate) = 0 over the given cash-flow
// vector (index = year). If the loop hits the iteration cap or the
// derivative collapses, the last estimate stands.
func solveIRR(flows []float64) float64 {
	if len(flows) < 2 {
		return 0
	}
	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		npv := 0.0
		deriv := 0.0
		for t, cf := range flows {
			ft := float64(t)
			npv += cf / math.Pow(1+rate, ft)
			deriv -= ft * cf / math.Pow(1+rate, ft+1)
		}
		if math.Abs(deriv) < irrDerivativeEps {
			break
		}
		next := rate - npv/deriv
		if math.Abs(next-rate) < irrRateTolerance {
			rate = next
			break
		}
		rate = next
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate
}

// shockedReturn recomputes the total return over a horizon with shifted
// interest and appreciation rates: cumulative cash flow plus equity gain,
// as a percentage of the cash invested today.
func shockedReturn(state types.ScenarioState, m *types.MetricsBundle, rateShift, appShift float64, years int) float64 {
	if years <= 0 || m.TotalCashInvested <= 0 {
		return 0
	}
	newRate := math.Max(0, state.InterestRate+rateShift)
	newApp := m.EffectiveAppreciation + appShift

	payment := monthlyPayment(m.LoanAmount, newRate, state.LoanTermYears)
	cashFlow := m.NOI - payment*12

	projected := state.PropertyValue * math.Pow(1+newApp/100, float64(years))
	remaining := remainingBalance(m.LoanAmount, newRate, state.LoanTermYears, years)
	equityGain := (projected - remaining) - m.EquityInvested

	totalGain := cashFlow*float64(years) + equityGain
	return totalGain / m.TotalCashInvested * 100
}
