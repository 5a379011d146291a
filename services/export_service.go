package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
)

// BuildReport renders a session into a four-sheet workbook: headline
// metrics, the year-by-year projection, the structure comparison and the
// macro-shock grid. The file is streamed to the caller, never persisted.
func BuildReport(ctx context.Context, session types.Session) (*excelize.File, error) {
	span := sentry.StartSpan(ctx, "report.build")
	defer span.Finish()

	f := excelize.NewFile()
	state := session.State
	m := session.Metrics

	if err := writeSummarySheet(f, state, m); err != nil {
		return nil, err
	}
	if err := writeProjectionSheet(f, m); err != nil {
		return nil, err
	}
	if err := writeStructureSheet(f, m); err != nil {
		return nil, err
	}
	if err := writeSensitivitySheet(f, m); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	zap.L().Info("built simulator report", zap.String("sessionId", session.ID))
	return f, nil
}

func writeSummarySheet(f *excelize.File, state types.ScenarioState, m types.MetricsBundle) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Property value", state.PropertyValue},
		{"Market region", constants.RegionByID(state.MarketRegion).Label},
		{"Price bracket", string(state.PriceBracket)},
		{"Holding structure", string(state.HoldingStructure)},
		{"Gross annual rent", state.GrossAnnualRent},
		{"Effective rent", m.EffectiveRent},
		{"Total carry cost", m.TotalCarryCost},
		{"NOI", m.NOI},
		{"Cap rate %", m.CapRate},
		{"Loan amount", m.LoanAmount},
		{"Monthly payment", m.MonthlyPayment},
		{"DSCR", dscrCell(m.DSCR)},
		{"Total cash invested", m.TotalCashInvested},
		{"Annual cash flow", m.AnnualCashFlow},
		{"Cash-on-cash %", m.CashOnCash},
		{"Effective appreciation %", m.EffectiveAppreciation},
		{"Exit value", m.ExitValue},
		{"Net exit proceeds", m.NetExitWithBenefit},
		{"IRR %", m.IRRPercent},
		{"Break-even appreciation %", m.BreakEvenAppreciation},
		{"Required appreciation %", m.RequiredAppreciation},
		{"Avg days on market", m.AvgDaysOnMarket},
		{"Carry cost while listed", m.CarryCostDuringListing},
	}
	return writeRows(f, sheet, rows)
}

// dscrCell keeps the workbook valid when the scenario is debt-free.
func dscrCell(d types.InfFloat) interface{} {
	v := float64(d)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "∞"
	}
	return v
}

func writeProjectionSheet(f *excelize.File, m types.MetricsBundle) error {
	const sheet = "Projection"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{{"Year", "Property value", "Remaining loan", "Equity", "Cumulative cash flow"}}
	for _, p := range m.Projection {
		rows = append(rows, []interface{}{p.Year, p.PropertyValue, p.RemainingLoan, p.Equity, p.CumulativeCashFlow})
	}
	return writeRows(f, sheet, rows)
}

func writeStructureSheet(f *excelize.File, m types.MetricsBundle) error {
	const sheet = "Structures"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{{"Structure", "Setup cost", "Tax on gain", "Net exit", "Yearly benefit total", "Net with benefit"}}
	for _, s := range m.StructureComparison {
		rows = append(rows, []interface{}{string(s.Structure), s.SetupCost, s.TaxOnGain, s.NetExitProceeds, s.StructureBenefit, s.NetWithBenefit})
	}
	return writeRows(f, sheet, rows)
}

func writeSensitivitySheet(f *excelize.File, m types.MetricsBundle) error {
	const sheet = "Sensitivity"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{{"Rate shift", "Appreciation shift", "5y return %", "10y return %", "Hold return %"}}
	for _, c := range m.ShockGrid {
		rows = append(rows, []interface{}{c.RateShift, c.AppreciationShift, c.Return5, c.Return10, c.ReturnHold})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
