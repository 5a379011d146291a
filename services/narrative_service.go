package services

import (
	"fmt"
	"strconv"
	"strings"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
	"vaultbackend/utils/helpers"
)

// Narrative generation. Two modes: a message that set four or more fields
// reads as a property intake and gets a grouped summary with an instant
// analysis block; smaller changes get the changed lines plus a full
// walkthrough of the recomputed metrics.
//
// The qualitative remarks are fixed editorial copy keyed to fixed
// thresholds; they are part of the product voice, not derived values.

const bulkIntakeThreshold = 4

// RenderNarrative builds the assistant reply for an applied extraction.
func RenderNarrative(update types.ScenarioUpdate, descriptions []string, state types.ScenarioState, m types.MetricsBundle) string {
	if len(descriptions) >= bulkIntakeThreshold {
		return renderIntakeSummary(update, descriptions, state, m)
	}
	return renderChangeSummary(descriptions, state, m)
}

// WelcomeMessage opens a new session so the chat has a defined start state.
func WelcomeMessage(state types.ScenarioState) string {
	return "I'm modeling a " + helpers.FormatMoney(state.PropertyValue) + " property in " +
		constants.RegionByID(state.MarketRegion).Label + ". Describe the deal in your own words — " +
		"price, rent, financing — or adjust the controls directly, and I'll keep the numbers current. " +
		"You can also ask for advice, like \"minimize my costs\"."
}

// GuidanceMessage is returned when a message parses to nothing; the chat
// must never silently ignore input.
func GuidanceMessage() string {
	return strings.Join([]string{
		"I couldn't pull any parameters out of that. Things I understand:",
		"",
		"• \"It's a $6.5M villa in Miami Beach, rented at $35K/month\"",
		"• \"30% down at 6.5% over 30 years\"",
		"• \"turn off the pool\" / \"add 2 security guards\"",
		"• \"hold it in an LLC\" / \"sell after 7 years\"",
		"• \"minimize my costs\" / \"how do I maximize return?\"",
	}, "\n")
}

// intakeGroup buckets extracted fields under one summary header.
type intakeGroup struct {
	header string
	lines  []string
}

func renderIntakeSummary(u types.ScenarioUpdate, descriptions []string, state types.ScenarioState, m types.MetricsBundle) string {
	groups := []intakeGroup{
		{header: "Property", lines: propertyLines(u)},
		{header: "Income", lines: incomeLines(u)},
		{header: "Financing", lines: financingLines(u)},
		{header: "Costs", lines: costLines(u)},
		{header: "Services", lines: serviceLines(u)},
		{header: "Strategy", lines: strategyLines(u)},
	}

	var b strings.Builder
	b.WriteString("Got it — I've set up the scenario from your description:\n")
	for _, g := range groups {
		if len(g.lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", g.header)
		for _, line := range g.lines {
			fmt.Fprintf(&b, "  • %s\n", line)
		}
	}

	b.WriteString("\nInstant Analysis\n")
	fmt.Fprintf(&b, "  • Cash needed at entry: %s\n", helpers.FormatMoney(m.TotalCashInvested))
	fmt.Fprintf(&b, "  • NOI: %s (%s cap rate)\n", helpers.FormatMoney(m.NOI), helpers.FormatPercent(m.CapRate))
	fmt.Fprintf(&b, "  • Annual cash flow after debt: %s (%s cash-on-cash)\n", helpers.FormatMoney(m.AnnualCashFlow), helpers.FormatPercent(m.CashOnCash))
	fmt.Fprintf(&b, "  • Projected IRR over %d years: %s\n", state.HoldPeriodYears, helpers.FormatPercent(m.IRRPercent))
	fmt.Fprintf(&b, "  • Net exit proceeds: %s\n", helpers.FormatMoney(m.NetExitWithBenefit))
	return b.String()
}

func propertyLines(u types.ScenarioUpdate) []string {
	var lines []string
	if u.PropertyValue != nil {
		lines = append(lines, "Value "+helpers.FormatMoney(*u.PropertyValue))
	}
	if u.MarketRegion != nil {
		lines = append(lines, "Market "+constants.RegionByID(*u.MarketRegion).Label)
	}
	if u.PrivateBeach != nil && *u.PrivateBeach {
		lines = append(lines, "Private beach")
	}
	if u.HeritageStatus != nil && *u.HeritageStatus {
		lines = append(lines, "Heritage status")
	}
	if u.StarchitectDesign != nil && *u.StarchitectDesign {
		lines = append(lines, "Starchitect design")
	}
	if u.UniqueView != nil && *u.UniqueView {
		lines = append(lines, "Unique view")
	}
	return lines
}

func incomeLines(u types.ScenarioUpdate) []string {
	var lines []string
	if u.GrossAnnualRent != nil {
		lines = append(lines, "Gross rent "+helpers.FormatMoney(*u.GrossAnnualRent)+"/yr")
	}
	if u.VacancyRate != nil {
		lines = append(lines, "Vacancy "+helpers.FormatPercent(*u.VacancyRate))
	}
	return lines
}

func financingLines(u types.ScenarioUpdate) []string {
	var lines []string
	if u.LTVRatio != nil {
		if *u.LTVRatio == 0 {
			lines = append(lines, "All-cash purchase")
		} else {
			lines = append(lines, "LTV "+helpers.FormatPercent(*u.LTVRatio))
		}
	}
	if u.InterestRate != nil {
		lines = append(lines, "Interest "+helpers.FormatPercent(*u.InterestRate))
	}
	if u.LoanTermYears != nil {
		lines = append(lines, strconv.Itoa(*u.LoanTermYears)+"-year loan")
	}
	return lines
}

func costLines(u types.ScenarioUpdate) []string {
	var lines []string
	if u.ClosingCosts != nil {
		lines = append(lines, "Closing "+helpers.FormatMoney(*u.ClosingCosts))
	}
	if u.RenovationCosts != nil {
		lines = append(lines, "Renovation "+helpers.FormatMoney(*u.RenovationCosts))
	}
	if u.PropertyTaxRate != nil {
		lines = append(lines, "Property tax "+helpers.FormatPercent(*u.PropertyTaxRate))
	}
	if u.AnnualInsurance != nil {
		lines = append(lines, "Insurance "+helpers.FormatMoney(*u.AnnualInsurance)+"/yr")
	}
	return lines
}

func serviceLines(u types.ScenarioUpdate) []string {
	var lines []string
	add := func(label string, v *float64) {
		if v == nil {
			return
		}
		if *v == 0 {
			lines = append(lines, label+" off")
		} else {
			lines = append(lines, label+" "+helpers.FormatMoney(*v)+"/yr")
		}
	}
	add("Concierge", u.ConciergeService)
	add("Security", u.SecurityService)
	add("Landscaping", u.Landscaping)
	add("Pool", u.PoolMaintenance)
	add("Wine cellar", u.WineCellarClimate)
	add("Smart home", u.SmartHomeSystems)
	add("Management", u.PropertyManagement)
	if u.LiveInStaff != nil {
		lines = append(lines, strconv.Itoa(*u.LiveInStaff)+" live-in staff")
	}
	if u.SecurityTeam != nil {
		lines = append(lines, strconv.Itoa(*u.SecurityTeam)+" security team")
	}
	if u.PropertyManagers != nil {
		lines = append(lines, strconv.Itoa(*u.PropertyManagers)+" property managers")
	}
	if u.AvgStaffSalary != nil {
		lines = append(lines, "Staff salary "+helpers.FormatMoney(*u.AvgStaffSalary))
	}
	return lines
}

func strategyLines(u types.ScenarioUpdate) []string {
	var lines []string
	if u.HoldingStructure != nil {
		lines = append(lines, "Held via "+structureLabels[*u.HoldingStructure])
	}
	if u.HoldPeriodYears != nil {
		lines = append(lines, strconv.Itoa(*u.HoldPeriodYears)+"-year hold")
	}
	if u.TargetExitProfit != nil {
		lines = append(lines, "Target profit "+helpers.FormatMoney(*u.TargetExitProfit))
	}
	if u.BaseAppreciationRate != nil {
		lines = append(lines, "Appreciation "+helpers.FormatPercent(*u.BaseAppreciationRate))
	}
	return lines
}

func renderChangeSummary(descriptions []string, state types.ScenarioState, m types.MetricsBundle) string {
	var b strings.Builder
	b.WriteString("Updated:\n")
	for _, d := range descriptions {
		fmt.Fprintf(&b, "  • %s\n", d)
	}

	b.WriteString("\nHere's where the deal stands now:\n\n")
	fmt.Fprintf(&b, "Entry — %s cash in (%s equity, %s closing, %s renovation).\n",
		helpers.FormatMoney(m.TotalCashInvested), helpers.FormatMoney(m.EquityInvested),
		helpers.FormatMoney(state.ClosingCosts), helpers.FormatMoney(state.RenovationCosts))
	fmt.Fprintf(&b, "Operations — NOI %s, a %s cap rate. %s\n",
		helpers.FormatMoney(m.NOI), helpers.FormatPercent(m.CapRate), capRateRemark(m.CapRate))
	fmt.Fprintf(&b, "Carry — %s/yr, %s of property value.\n",
		helpers.FormatMoney(m.TotalCarryCost), helpers.FormatPercent(m.CarryRatio))
	fmt.Fprintf(&b, "Financing — %s loan at %s, %s/mo. Cash-on-cash %s. %s\n",
		helpers.FormatMoney(m.LoanAmount), helpers.FormatPercent(state.InterestRate),
		helpers.FormatMoney(m.MonthlyPayment), helpers.FormatPercent(m.CashOnCash), cashOnCashRemark(m.CashOnCash))
	fmt.Fprintf(&b, "Return — projected IRR %s over %d years. %s\n",
		helpers.FormatPercent(m.IRRPercent), state.HoldPeriodYears, irrRemark(m.IRRPercent))
	fmt.Fprintf(&b, "Break-even — needs %s/yr appreciation; you're modeling %s. %s",
		helpers.FormatPercent(m.BreakEvenAppreciation), helpers.FormatPercent(m.EffectiveAppreciation),
		breakEvenRemark(m.BreakEvenAppreciation, m.EffectiveAppreciation))
	return b.String()
}

func capRateRemark(capRate float64) string {
	switch {
	case capRate < 2:
		return "That's thin — typical for trophy assets where the return is in appreciation, not income."
	case capRate < 4:
		return "In the normal band for luxury property."
	default:
		return "Strong income yield for this class."
	}
}

func cashOnCashRemark(coc float64) string {
	switch {
	case coc < 3:
		return "Modest cash yield; this deal leans on appreciation."
	case coc < 6:
		return "Respectable cash yield."
	default:
		return "Excellent cash yield."
	}
}

func irrRemark(irr float64) string {
	switch {
	case irr < 4:
		return "Below what passive alternatives pay — the scenario needs work."
	case irr < 7:
		return "Acceptable, though not compelling."
	case irr < 10:
		return "Solid risk-adjusted territory."
	default:
		return "Exceptional projected performance."
	}
}

func breakEvenRemark(breakEven, effective float64) string {
	if effective >= breakEven {
		return "Expected appreciation covers your costs."
	}
	return "Expected appreciation does not cover costs — income or growth assumptions need to improve."
}
