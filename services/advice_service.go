package services

import (
	"fmt"
	"sort"
	"strings"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
	"vaultbackend/utils/helpers"
)

// Advice is one generated recommendation: prose, an optional parameter
// delta the caller applies immediately, and the estimated annual savings
// when costs were cut.
type Advice struct {
	Text             string
	Recommended      *types.ScenarioUpdate
	EstimatedSavings float64
}

// goalPhrases maps trigger phrases to goals, checked in order,
// first match wins. The generic advice verbs come last so a specific goal
// always beats the fallback.
var goalPhrases = []struct {
	phrase string
	goal   types.Goal
}{
	{"minimize cost", types.GoalMinimizeCost},
	{"minimize my cost", types.GoalMinimizeCost},
	{"reduce cost", types.GoalMinimizeCost},
	{"cut cost", types.GoalMinimizeCost},
	{"lower cost", types.GoalMinimizeCost},
	{"lower my cost", types.GoalMinimizeCost},
	{"spend less", types.GoalMinimizeCost},
	{"maximize return", types.GoalMaximizeReturn},
	{"maximise return", types.GoalMaximizeReturn},
	{"best return", types.GoalMaximizeReturn},
	{"highest return", types.GoalMaximizeReturn},
	{"improve irr", types.GoalMaximizeReturn},
	{"increase return", types.GoalMaximizeReturn},
	{"maximize cash", types.GoalMaximizeCash},
	{"improve cash flow", types.GoalMaximizeCash},
	{"more cash flow", types.GoalMaximizeCash},
	{"better cash flow", types.GoalMaximizeCash},
	{"cash flow", types.GoalMaximizeCash},
	{"reduce risk", types.GoalReduceRisk},
	{"lower risk", types.GoalReduceRisk},
	{"less risk", types.GoalReduceRisk},
	{"de-risk", types.GoalReduceRisk},
	{"safer", types.GoalReduceRisk},
	{"optimize tax", types.GoalOptimizeTax},
	{"optimise tax", types.GoalOptimizeTax},
	{"tax efficien", types.GoalOptimizeTax},
	{"reduce tax", types.GoalOptimizeTax},
	{"lower tax", types.GoalOptimizeTax},
	{"save on tax", types.GoalOptimizeTax},
	{"advice", types.GoalGeneral},
	{"recommend", types.GoalGeneral},
	{"suggest", types.GoalGeneral},
	{"optimize", types.GoalGeneral},
	{"optimise", types.GoalGeneral},
	{"what should i", types.GoalGeneral},
}

// DetectGoal reports whether the message asks for advice and which goal it
// names. Case-insensitive, first phrase match wins.
func DetectGoal(text string) (bool, types.Goal) {
	t := helpers.NormalizeString(text)
	for _, entry := range goalPhrases {
		if strings.Contains(t, entry.phrase) {
			return true, entry.goal
		}
	}
	return false, types.GoalGeneral
}

// costField is one rankable annual service budget.
type costField struct {
	label  string
	amount float64
	assign func(u *types.ScenarioUpdate, v float64)
}

func rankedCostFields(state types.ScenarioState) []costField {
	fields := []costField{
		{"Concierge service", state.ConciergeService, func(u *types.ScenarioUpdate, v float64) { u.ConciergeService = &v }},
		{"Security service", state.SecurityService, func(u *types.ScenarioUpdate, v float64) { u.SecurityService = &v }},
		{"Landscaping", state.Landscaping, func(u *types.ScenarioUpdate, v float64) { u.Landscaping = &v }},
		{"Pool maintenance", state.PoolMaintenance, func(u *types.ScenarioUpdate, v float64) { u.PoolMaintenance = &v }},
		{"Wine cellar climate", state.WineCellarClimate, func(u *types.ScenarioUpdate, v float64) { u.WineCellarClimate = &v }},
		{"Smart home systems", state.SmartHomeSystems, func(u *types.ScenarioUpdate, v float64) { u.SmartHomeSystems = &v }},
		{"Property management", state.PropertyManagement, func(u *types.ScenarioUpdate, v float64) { u.PropertyManagement = &v }},
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].amount > fields[j].amount })
	return fields
}

// Cost fields below this are treated as essential and never proposed for
// elimination.
const minCutThreshold = 25_000.0

// GenerateAdvice builds a concrete recommendation for the detected goal.
// Every proposed value stays inside its field's valid range.
func GenerateAdvice(goal types.Goal, state types.ScenarioState, m types.MetricsBundle) Advice {
	switch goal {
	case types.GoalMinimizeCost:
		return adviseMinimizeCost(state, m)
	case types.GoalMaximizeReturn:
		return adviseMaximizeReturn(state, m)
	case types.GoalMaximizeCash:
		return adviseMaximizeCash(state, m)
	case types.GoalReduceRisk:
		return adviseReduceRisk(state, m)
	case types.GoalOptimizeTax:
		return adviseOptimizeTax(state, m)
	default:
		return adviseGeneral(state, m)
	}
}

func adviseMinimizeCost(state types.ScenarioState, m types.MetricsBundle) Advice {
	rec := &types.ScenarioUpdate{}
	var b strings.Builder
	savings := 0.0

	b.WriteString("Cost review — largest annual budgets first:\n\n")
	for _, f := range rankedCostFields(state) {
		if f.amount < minCutThreshold {
			continue
		}
		f.assign(rec, 0)
		savings += f.amount
		fmt.Fprintf(&b, "• %s: %s/yr → cut to $0\n", f.label, helpers.FormatMoney(f.amount))
	}

	if state.InfinityPool {
		off := false
		rec.InfinityPool = &off
		savings += constants.InfinityPoolUpkeep
		fmt.Fprintf(&b, "• Infinity pool upkeep: %s/yr → off\n", helpers.FormatMoney(constants.InfinityPoolUpkeep))
	}

	if savings == 0 {
		return Advice{Text: "Your service budgets are already lean; nothing above " +
			helpers.FormatMoney(minCutThreshold) + "/yr stands out to cut. The biggest remaining fixed costs are property tax (" +
			helpers.FormatMoney(state.PropertyValue*state.PropertyTaxRate/100) + "/yr) and insurance (" +
			helpers.FormatMoney(state.AnnualInsurance) + "/yr)."}
	}

	fmt.Fprintf(&b, "\nEstimated savings: %s per year (%s over the %d-year hold). Carry ratio drops from %s of property value.",
		helpers.FormatMoney(savings),
		helpers.FormatMoney(savings*float64(state.HoldPeriodYears)),
		state.HoldPeriodYears,
		helpers.FormatPercent(m.CarryRatio))

	return Advice{Text: b.String(), Recommended: rec, EstimatedSavings: savings}
}

func adviseMaximizeReturn(state types.ScenarioState, m types.MetricsBundle) Advice {
	rec := &types.ScenarioUpdate{}
	var b strings.Builder

	fmt.Fprintf(&b, "Current IRR is %s. To push total return:\n\n", helpers.FormatPercent(m.IRRPercent))

	if state.LTVRatio < 75 {
		ltv := helpers.Clamp(state.LTVRatio+10, 0, 80)
		rec.LTVRatio = &ltv
		fmt.Fprintf(&b, "• Raise leverage from %s to %s LTV — with a cap rate of %s against a %s note, extra debt amplifies equity returns.\n",
			helpers.FormatPercent(state.LTVRatio), helpers.FormatPercent(ltv),
			helpers.FormatPercent(m.CapRate), helpers.FormatPercent(state.InterestRate))
	}
	if state.LoanTermYears < 30 {
		term := 30
		rec.LoanTermYears = &term
		fmt.Fprintf(&b, "• Stretch the loan to 30 years — lower debt service keeps more cash compounding.\n")
	}
	if state.HoldPeriodYears < 10 {
		hold := 10
		rec.HoldPeriodYears = &hold
		fmt.Fprintf(&b, "• Extend the hold to 10 years — at %s effective appreciation, later years carry most of the gain.\n",
			helpers.FormatPercent(m.EffectiveAppreciation))
	}

	if rec.IsEmpty() {
		return Advice{Text: b.String() + "Leverage, term and hold period are already at their aggressive ends; returns now hinge on rent growth and appreciation."}
	}
	return Advice{Text: b.String(), Recommended: rec}
}

func adviseMaximizeCash(state types.ScenarioState, m types.MetricsBundle) Advice {
	rec := &types.ScenarioUpdate{}
	var b strings.Builder

	fmt.Fprintf(&b, "Annual cash flow is %s (%s cash-on-cash). To free up cash:\n\n",
		helpers.FormatMoney(m.AnnualCashFlow), helpers.FormatPercent(m.CashOnCash))

	if state.LoanTermYears < 30 {
		term := 30
		rec.LoanTermYears = &term
		fmt.Fprintf(&b, "• Amortize over 30 years instead of %d — the lower payment lands straight in cash flow.\n", state.LoanTermYears)
	}
	for _, f := range rankedCostFields(state) {
		if f.amount >= 50_000 {
			half := f.amount / 2
			f.assign(rec, half)
			fmt.Fprintf(&b, "• Halve %s to %s/yr.\n", strings.ToLower(f.label), helpers.FormatMoney(half))
			break
		}
	}

	if rec.IsEmpty() {
		return Advice{Text: b.String() + "Debt service and budgets are already stretched thin; raising rent or cutting vacancy is what's left."}
	}
	return Advice{Text: b.String(), Recommended: rec}
}

func adviseReduceRisk(state types.ScenarioState, m types.MetricsBundle) Advice {
	rec := &types.ScenarioUpdate{}
	var b strings.Builder

	fmt.Fprintf(&b, "DSCR is %.2f; lenders like 1.25 or better. To de-risk:\n\n", float64(m.DSCR))

	if state.LTVRatio > 50 {
		ltv := 50.0
		rec.LTVRatio = &ltv
		fmt.Fprintf(&b, "• Bring LTV down from %s to 50%% — smaller debt service widens the coverage margin.\n",
			helpers.FormatPercent(state.LTVRatio))
	}
	if state.VacancyRate < 10 {
		vac := 10.0
		rec.VacancyRate = &vac
		fmt.Fprintf(&b, "• Underwrite at 10%% vacancy instead of %s — if the numbers still work, the deal is robust.\n",
			helpers.FormatPercent(state.VacancyRate))
	}
	if state.HoldPeriodYears < 10 {
		hold := 10
		rec.HoldPeriodYears = &hold
		fmt.Fprintf(&b, "• Plan a 10-year hold — longer horizons ride out pricing cycles in the %s market.\n",
			constants.RegionByID(state.MarketRegion).Label)
	}

	if rec.IsEmpty() {
		return Advice{Text: b.String() + "Leverage, vacancy assumption and hold period are already conservative."}
	}
	return Advice{Text: b.String(), Recommended: rec}
}

func adviseOptimizeTax(state types.ScenarioState, m types.MetricsBundle) Advice {
	// Rank structures on exit net after benefits, charging each its own
	// setup cost.
	best := m.StructureComparison[0]
	bestScore := best.NetWithBenefit - best.SetupCost
	for _, s := range m.StructureComparison[1:] {
		if score := s.NetWithBenefit - s.SetupCost; score > bestScore {
			best, bestScore = s, score
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Exit proceeds by holding structure (after tax, fees and setup):\n\n")
	for _, s := range m.StructureComparison {
		marker := " "
		if s.Structure == best.Structure {
			marker = "←"
		}
		fmt.Fprintf(&b, "• %s: %s net %s\n", structureLabels[s.Structure],
			helpers.FormatMoney(s.NetWithBenefit-s.SetupCost), marker)
	}

	if best.Structure == state.HoldingStructure {
		fmt.Fprintf(&b, "\nYou are already holding through the best structure (%s) for this exit.", structureLabels[best.Structure])
		return Advice{Text: b.String()}
	}

	current := currentStructureExit(m, state.HoldingStructure)
	delta := (best.NetWithBenefit - best.SetupCost) - (current.NetWithBenefit - current.SetupCost)
	fmt.Fprintf(&b, "\nSwitching from %s to %s improves the net exit by about %s after the %s setup cost.",
		structureLabels[state.HoldingStructure], structureLabels[best.Structure],
		helpers.FormatMoney(delta), helpers.FormatMoney(best.SetupCost))

	s := best.Structure
	return Advice{Text: b.String(), Recommended: &types.ScenarioUpdate{HoldingStructure: &s}}
}

func currentStructureExit(m types.MetricsBundle, s types.HoldingStructure) types.StructureExit {
	for _, e := range m.StructureComparison {
		if e.Structure == s {
			return e
		}
	}
	return m.StructureComparison[0]
}

func adviseGeneral(state types.ScenarioState, m types.MetricsBundle) Advice {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot: %s cap rate, %s cash-on-cash, %s projected IRR over %d years.\n\n",
		helpers.FormatPercent(m.CapRate), helpers.FormatPercent(m.CashOnCash),
		helpers.FormatPercent(m.IRRPercent), state.HoldPeriodYears)

	switch {
	case m.AnnualCashFlow < 0:
		fmt.Fprintf(&b, "The property runs at a %s annual deficit — ask me to \"minimize cost\" or \"improve cash flow\" for concrete cuts.",
			helpers.FormatMoney(-m.AnnualCashFlow))
	case m.CarryRatio > 3:
		fmt.Fprintf(&b, "Carry costs are %s of property value per year, on the heavy side — \"minimize cost\" will rank what to trim.",
			helpers.FormatPercent(m.CarryRatio))
	case m.IRRPercent < 7:
		fmt.Fprintf(&b, "Returns are modest; ask me to \"maximize return\" to see leverage and hold-period moves.")
	default:
		fmt.Fprintf(&b, "The scenario looks balanced. Try \"optimize tax\" to compare holding structures, or \"reduce risk\" for a conservative rework.")
	}
	return Advice{Text: b.String()}
}
