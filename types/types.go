package types

import (
	"encoding/json"
	"math"
	"time"
)

// HoldingStructure is the legal wrapper the property is held through.
type HoldingStructure string

const (
	StructurePersonal HoldingStructure = "personal"
	StructureLLC      HoldingStructure = "llc"
	StructureTrust    HoldingStructure = "trust"
	StructureForeign  HoldingStructure = "foreign"
)

// PriceBracket buckets a property for market liquidity lookups.
type PriceBracket string

const (
	BracketEntry   PriceBracket = "entry"
	BracketPremium PriceBracket = "premium"
	BracketUltra   PriceBracket = "ultra"
)

// ScenarioState is the complete description of one hypothetical purchase and
// operating plan. Every field always holds a value; partial updates go
// through ScenarioUpdate.Apply so no field is ever left undefined.
type ScenarioState struct {
	// Acquisition
	PropertyValue   float64 `json:"propertyValue"`
	ClosingCosts    float64 `json:"closingCosts"`
	RenovationCosts float64 `json:"renovationCosts"`

	// Income
	GrossAnnualRent float64 `json:"grossAnnualRent"`
	VacancyRate     float64 `json:"vacancyRate"`

	// Luxury service budgets (annual)
	ConciergeService   float64 `json:"conciergeService"`
	SecurityService    float64 `json:"securityService"`
	Landscaping        float64 `json:"landscaping"`
	PoolMaintenance    float64 `json:"poolMaintenance"`
	WineCellarClimate  float64 `json:"wineCellarClimate"`
	SmartHomeSystems   float64 `json:"smartHomeSystems"`
	PropertyManagement float64 `json:"propertyManagement"`

	// Staffing
	LiveInStaff      int     `json:"liveInStaff"`
	SecurityTeam     int     `json:"securityTeam"`
	PropertyManagers int     `json:"propertyManagers"`
	AvgStaffSalary   float64 `json:"avgStaffSalary"`

	// Specialized maintenance flags, each carrying a fixed annual cost
	InfinityPool       bool `json:"infinityPool"`
	WineClimateControl bool `json:"wineClimateControl"`
	SmartHomeUpdates   bool `json:"smartHomeUpdates"`

	PropertyTaxRate float64 `json:"propertyTaxRate"`
	AnnualInsurance float64 `json:"annualInsurance"`

	// Financing
	LTVRatio      float64 `json:"ltvRatio"`
	InterestRate  float64 `json:"interestRate"`
	LoanTermYears int     `json:"loanTermYears"`

	HoldingStructure HoldingStructure `json:"holdingStructure"`

	// Growth
	BaseAppreciationRate float64 `json:"baseAppreciationRate"`
	PrivateBeach         bool    `json:"privateBeach"`
	HeritageStatus       bool    `json:"heritageStatus"`
	StarchitectDesign    bool    `json:"starchitectDesign"`
	UniqueView           bool    `json:"uniqueView"`

	// Exit / strategy
	HoldPeriodYears  int          `json:"holdPeriodYears"`
	TargetExitProfit float64      `json:"targetExitProfit"`
	PriceBracket     PriceBracket `json:"priceBracket"`
	MarketRegion     string       `json:"marketRegion"`
}

// ScenarioUpdate is a partial ScenarioState. Nil fields are untouched by
// Apply; the extractor also uses the nil checks as its "already set" guards.
type ScenarioUpdate struct {
	PropertyValue   *float64 `json:"propertyValue,omitempty"`
	ClosingCosts    *float64 `json:"closingCosts,omitempty"`
	RenovationCosts *float64 `json:"renovationCosts,omitempty"`

	GrossAnnualRent *float64 `json:"grossAnnualRent,omitempty"`
	VacancyRate     *float64 `json:"vacancyRate,omitempty"`

	ConciergeService   *float64 `json:"conciergeService,omitempty"`
	SecurityService    *float64 `json:"securityService,omitempty"`
	Landscaping        *float64 `json:"landscaping,omitempty"`
	PoolMaintenance    *float64 `json:"poolMaintenance,omitempty"`
	WineCellarClimate  *float64 `json:"wineCellarClimate,omitempty"`
	SmartHomeSystems   *float64 `json:"smartHomeSystems,omitempty"`
	PropertyManagement *float64 `json:"propertyManagement,omitempty"`

	LiveInStaff      *int     `json:"liveInStaff,omitempty"`
	SecurityTeam     *int     `json:"securityTeam,omitempty"`
	PropertyManagers *int     `json:"propertyManagers,omitempty"`
	AvgStaffSalary   *float64 `json:"avgStaffSalary,omitempty"`

	InfinityPool       *bool `json:"infinityPool,omitempty"`
	WineClimateControl *bool `json:"wineClimateControl,omitempty"`
	SmartHomeUpdates   *bool `json:"smartHomeUpdates,omitempty"`

	PropertyTaxRate *float64 `json:"propertyTaxRate,omitempty"`
	AnnualInsurance *float64 `json:"annualInsurance,omitempty"`

	LTVRatio      *float64 `json:"ltvRatio,omitempty"`
	InterestRate  *float64 `json:"interestRate,omitempty"`
	LoanTermYears *int     `json:"loanTermYears,omitempty"`

	HoldingStructure *HoldingStructure `json:"holdingStructure,omitempty"`

	BaseAppreciationRate *float64 `json:"baseAppreciationRate,omitempty"`
	PrivateBeach         *bool    `json:"privateBeach,omitempty"`
	HeritageStatus       *bool    `json:"heritageStatus,omitempty"`
	StarchitectDesign    *bool    `json:"starchitectDesign,omitempty"`
	UniqueView           *bool    `json:"uniqueView,omitempty"`

	HoldPeriodYears  *int          `json:"holdPeriodYears,omitempty"`
	TargetExitProfit *float64      `json:"targetExitProfit,omitempty"`
	PriceBracket     *PriceBracket `json:"priceBracket,omitempty"`
	MarketRegion     *string       `json:"marketRegion,omitempty"`
}

// Apply merges the update onto a copy of the state. Last writer wins.
func (u *ScenarioUpdate) Apply(state ScenarioState) ScenarioState {
	if u == nil {
		return state
	}
	if u.PropertyValue != nil {
		state.PropertyValue = *u.PropertyValue
	}
	if u.ClosingCosts != nil {
		state.ClosingCosts = *u.ClosingCosts
	}
	if u.RenovationCosts != nil {
		state.RenovationCosts = *u.RenovationCosts
	}
	if u.GrossAnnualRent != nil {
		state.GrossAnnualRent = *u.GrossAnnualRent
	}
	if u.VacancyRate != nil {
		state.VacancyRate = *u.VacancyRate
	}
	if u.ConciergeService != nil {
		state.ConciergeService = *u.ConciergeService
	}
	if u.SecurityService != nil {
		state.SecurityService = *u.SecurityService
	}
	if u.Landscaping != nil {
		state.Landscaping = *u.Landscaping
	}
	if u.PoolMaintenance != nil {
		state.PoolMaintenance = *u.PoolMaintenance
	}
	if u.WineCellarClimate != nil {
		state.WineCellarClimate = *u.WineCellarClimate
	}
	if u.SmartHomeSystems != nil {
		state.SmartHomeSystems = *u.SmartHomeSystems
	}
	if u.PropertyManagement != nil {
		state.PropertyManagement = *u.PropertyManagement
	}
	if u.LiveInStaff != nil {
		state.LiveInStaff = *u.LiveInStaff
	}
	if u.SecurityTeam != nil {
		state.SecurityTeam = *u.SecurityTeam
	}
	if u.PropertyManagers != nil {
		state.PropertyManagers = *u.PropertyManagers
	}
	if u.AvgStaffSalary != nil {
		state.AvgStaffSalary = *u.AvgStaffSalary
	}
	if u.InfinityPool != nil {
		state.InfinityPool = *u.InfinityPool
	}
	if u.WineClimateControl != nil {
		state.WineClimateControl = *u.WineClimateControl
	}
	if u.SmartHomeUpdates != nil {
		state.SmartHomeUpdates = *u.SmartHomeUpdates
	}
	if u.PropertyTaxRate != nil {
		state.PropertyTaxRate = *u.PropertyTaxRate
	}
	if u.AnnualInsurance != nil {
		state.AnnualInsurance = *u.AnnualInsurance
	}
	if u.LTVRatio != nil {
		state.LTVRatio = *u.LTVRatio
	}
	if u.InterestRate != nil {
		state.InterestRate = *u.InterestRate
	}
	if u.LoanTermYears != nil {
		state.LoanTermYears = *u.LoanTermYears
	}
	if u.HoldingStructure != nil {
		state.HoldingStructure = *u.HoldingStructure
	}
	if u.BaseAppreciationRate != nil {
		state.BaseAppreciationRate = *u.BaseAppreciationRate
	}
	if u.PrivateBeach != nil {
		state.PrivateBeach = *u.PrivateBeach
	}
	if u.HeritageStatus != nil {
		state.HeritageStatus = *u.HeritageStatus
	}
	if u.StarchitectDesign != nil {
		state.StarchitectDesign = *u.StarchitectDesign
	}
	if u.UniqueView != nil {
		state.UniqueView = *u.UniqueView
	}
	if u.HoldPeriodYears != nil {
		state.HoldPeriodYears = *u.HoldPeriodYears
	}
	if u.TargetExitProfit != nil {
		state.TargetExitProfit = *u.TargetExitProfit
	}
	if u.PriceBracket != nil {
		state.PriceBracket = *u.PriceBracket
	}
	if u.MarketRegion != nil {
		state.MarketRegion = *u.MarketRegion
	}
	return state
}

// IsEmpty reports whether the update touches no field at all.
func (u *ScenarioUpdate) IsEmpty() bool {
	if u == nil {
		return true
	}
	b, _ := json.Marshal(u)
	return string(b) == "{}"
}

// InfFloat is a float64 that survives JSON encoding when infinite.
// encoding/json rejects IEEE infinities, but the DSCR sentinel for a
// debt-free scenario is +Inf.
type InfFloat float64

func (f InfFloat) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(f), 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(float64(f), -1) {
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(float64(f))
}

// YearProjection is one row of the hold-period projection.
type YearProjection struct {
	Year               int     `json:"year"`
	PropertyValue      float64 `json:"propertyValue"`
	RemainingLoan      float64 `json:"remainingLoan"`
	Equity             float64 `json:"equity"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow"`
}

// StructureExit is the exit waterfall recomputed under one holding
// structure, for the side-by-side tax comparison.
type StructureExit struct {
	Structure        HoldingStructure `json:"structure"`
	SetupCost        float64          `json:"setupCost"`
	TaxOnGain        float64          `json:"taxOnGain"`
	NetExitProceeds  float64          `json:"netExitProceeds"`
	StructureBenefit float64          `json:"structureBenefit"`
	NetWithBenefit   float64          `json:"netWithBenefit"`
}

// ShockCell is one cell of the macro-shock sensitivity grid: total returns
// after a combined interest-rate and appreciation shift.
type ShockCell struct {
	RateShift         float64 `json:"rateShift"`
	AppreciationShift float64 `json:"appreciationShift"`
	Return5           float64 `json:"return5"`
	Return10          float64 `json:"return10"`
	ReturnHold        float64 `json:"returnHold"`
}

// MetricsBundle holds every derived figure for one ScenarioState. It is
// recomputed from scratch on each change and carries no state of its own.
type MetricsBundle struct {
	// Carry costs
	LuxuryOpex             float64 `json:"luxuryOpex"`
	StaffingCost           float64 `json:"staffingCost"`
	SpecializedMaintenance float64 `json:"specializedMaintenance"`
	TotalCarryCost         float64 `json:"totalCarryCost"`

	// Income
	VacancyLoss   float64 `json:"vacancyLoss"`
	EffectiveRent float64 `json:"effectiveRent"`

	NOI     float64 `json:"noi"`
	CapRate float64 `json:"capRate"`

	// Debt
	LoanAmount        float64  `json:"loanAmount"`
	EquityInvested    float64  `json:"equityInvested"`
	MonthlyPayment    float64  `json:"monthlyPayment"`
	AnnualDebtService float64  `json:"annualDebtService"`
	DSCR              InfFloat `json:"dscr"`

	// Cash-on-cash
	AnnualCashFlow    float64 `json:"annualCashFlow"`
	TotalCashInvested float64 `json:"totalCashInvested"`
	CashOnCash        float64 `json:"cashOnCash"`

	// Appreciation
	ScarcityBonus         float64 `json:"scarcityBonus"`
	EffectiveAppreciation float64 `json:"effectiveAppreciation"`

	Projection []YearProjection `json:"projection"`

	// Exit economics
	ExitValue          float64 `json:"exitValue"`
	CapitalGain        float64 `json:"capitalGain"`
	TaxOnGain          float64 `json:"taxOnGain"`
	SellingCosts       float64 `json:"sellingCosts"`
	NetExitProceeds    float64 `json:"netExitProceeds"`
	StructureBenefit   float64 `json:"structureBenefit"`
	NetExitWithBenefit float64 `json:"netExitWithBenefit"`

	IRRPercent float64 `json:"irrPercent"`

	CarryRatio            float64 `json:"carryRatio"`
	BreakEvenAppreciation float64 `json:"breakEvenAppreciation"`

	// Liquidity
	AvgDaysOnMarket        float64 `json:"avgDaysOnMarket"`
	CarryCostDuringListing float64 `json:"carryCostDuringListing"`

	RequiredAppreciation float64 `json:"requiredAppreciation"`

	StructureComparison []StructureExit `json:"structureComparison"`
	ShockGrid           []ShockCell     `json:"shockGrid"`
}

// ChatMessage is one entry of a session's append-only chat log.
type ChatMessage struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"` // "user" or "assistant"
	Text      string          `json:"text"`
	Delta     *ScenarioUpdate `json:"delta,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Session is one live simulator conversation. Sessions are held in memory
// only; nothing is persisted across restarts.
type Session struct {
	ID        string        `json:"id"`
	State     ScenarioState `json:"state"`
	Metrics   MetricsBundle `json:"metrics"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Goal is a detected optimization objective in a chat message.
type Goal string

const (
	GoalMinimizeCost   Goal = "minimize_cost"
	GoalMaximizeReturn Goal = "maximize_return"
	GoalMaximizeCash   Goal = "maximize_cash_flow"
	GoalReduceRisk     Goal = "reduce_risk"
	GoalOptimizeTax    Goal = "optimize_tax"
	GoalGeneral        Goal = "general"
)
