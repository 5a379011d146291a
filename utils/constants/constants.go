package constants

import "vaultbackend/types"

// Specialized maintenance flags each carry a fixed annual cost when active.
const (
	InfinityPoolUpkeep = 48000.0
	WineClimateUpkeep  = 18000.0
	SmartHomeUpkeep    = 22000.0
)

// Scarcity premiums, additive percentage points on the appreciation rate.
const (
	PrivateBeachBonus = 1.2
	HeritageBonus     = 0.8
	StarchitectBonus  = 1.0
	UniqueViewBonus   = 0.6
)

// StructureProfile is the fixed tax profile of a holding structure. The
// numbers are illustrative planning figures, not tax advice.
type StructureProfile struct {
	// Effective rate applied to the capital gain at exit.
	CapGainRate float64
	// Recurring benefit per year, as a fraction of property value.
	YearlyBenefitRate float64
	// One-time cost to set the structure up, added to cash invested.
	SetupCost float64
}

var StructureProfiles = map[types.HoldingStructure]StructureProfile{
	types.StructurePersonal: {CapGainRate: 0.20, YearlyBenefitRate: 0, SetupCost: 0},
	types.StructureLLC:      {CapGainRate: 0.20, YearlyBenefitRate: 0.002, SetupCost: 35000},
	types.StructureTrust:    {CapGainRate: 0.15, YearlyBenefitRate: 0.001, SetupCost: 60000},
	types.StructureForeign:  {CapGainRate: 0.10, YearlyBenefitRate: 0.0025, SetupCost: 150000},
}

// AllStructures is the display/comparison order.
var AllStructures = []types.HoldingStructure{
	types.StructurePersonal,
	types.StructureLLC,
	types.StructureTrust,
	types.StructureForeign,
}

// Region describes one luxury market: average days-on-market per price
// bracket, the local broker fee, and the keywords the extractor and the
// address seeding use to recognize it.
type Region struct {
	ID           string
	Label        string
	BrokerFeePct float64
	DaysOnMarket map[types.PriceBracket]float64
	Keywords     []string
}

// Regions is ordered: keyword detection walks it top to bottom and the first
// region with a matching keyword wins.
var Regions = []Region{
	{
		ID: "miami-beach", Label: "Miami Beach", BrokerFeePct: 5.5,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 95, types.BracketPremium: 140, types.BracketUltra: 210},
		Keywords:     []string{"miami beach", "south beach", "miami", "fisher island"},
	},
	{
		ID: "palm-beach", Label: "Palm Beach", BrokerFeePct: 5.5,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 90, types.BracketPremium: 130, types.BracketUltra: 200},
		Keywords:     []string{"palm beach", "boca raton"},
	},
	{
		ID: "hamptons", Label: "The Hamptons", BrokerFeePct: 5.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 110, types.BracketPremium: 160, types.BracketUltra: 240},
		Keywords:     []string{"hamptons", "east hampton", "southampton", "sag harbor"},
	},
	{
		ID: "manhattan", Label: "Manhattan", BrokerFeePct: 6.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 85, types.BracketPremium: 120, types.BracketUltra: 190},
		Keywords:     []string{"manhattan", "new york", "nyc", "tribeca", "central park"},
	},
	{
		ID: "beverly-hills", Label: "Beverly Hills", BrokerFeePct: 5.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 80, types.BracketPremium: 125, types.BracketUltra: 185},
		Keywords:     []string{"beverly hills", "bel air", "holmby hills", "los angeles"},
	},
	{
		ID: "malibu", Label: "Malibu", BrokerFeePct: 5.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 100, types.BracketPremium: 150, types.BracketUltra: 230},
		Keywords:     []string{"malibu", "carbon beach"},
	},
	{
		ID: "aspen", Label: "Aspen", BrokerFeePct: 5.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 120, types.BracketPremium: 170, types.BracketUltra: 260},
		Keywords:     []string{"aspen", "snowmass"},
	},
	{
		ID: "monaco", Label: "Monaco", BrokerFeePct: 3.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 130, types.BracketPremium: 180, types.BracketUltra: 270},
		Keywords:     []string{"monaco", "monte carlo"},
	},
	{
		ID: "london", Label: "London Prime", BrokerFeePct: 2.5,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 120, types.BracketPremium: 175, types.BracketUltra: 280},
		Keywords:     []string{"london", "mayfair", "kensington", "knightsbridge", "belgravia"},
	},
	{
		ID: "paris", Label: "Paris", BrokerFeePct: 4.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 115, types.BracketPremium: 165, types.BracketUltra: 250},
		Keywords:     []string{"paris", "saint germain", "triangle d'or"},
	},
	{
		ID: "dubai", Label: "Dubai", BrokerFeePct: 2.0,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 75, types.BracketPremium: 110, types.BracketUltra: 170},
		Keywords:     []string{"dubai", "palm jumeirah", "emirates hills"},
	},
	{
		ID: "lake-como", Label: "Lake Como", BrokerFeePct: 3.5,
		DaysOnMarket: map[types.PriceBracket]float64{types.BracketEntry: 150, types.BracketPremium: 210, types.BracketUltra: 320},
		Keywords:     []string{"lake como", "como", "bellagio"},
	},
}

// RegionByID returns the region table entry, falling back to the default
// region so lookups never fail on a stale id.
func RegionByID(id string) Region {
	for _, r := range Regions {
		if r.ID == id {
			return r
		}
	}
	return Regions[0]
}

// ServiceCostRatios are the default annual budgets for each luxury service
// as a fraction of property value, used when a chat message enables a
// service without naming a dollar amount.
var ServiceCostRatios = map[string]float64{
	"conciergeService":   0.008,
	"securityService":    0.010,
	"landscaping":        0.006,
	"poolMaintenance":    0.004,
	"wineCellarClimate":  0.0012,
	"smartHomeSystems":   0.0015,
	"propertyManagement": 0.010,
}

// Proportional defaults applied when a session is seeded from a known
// property price.
const (
	InitRentRatio      = 0.06
	InitClosingRatio   = 0.03
	InitInsuranceRatio = 0.005
)

// Price bracket boundaries.
const (
	BracketPremiumFloor = 5_000_000.0
	BracketUltraFloor   = 20_000_000.0
)

// BracketForValue buckets a property price.
func BracketForValue(value float64) types.PriceBracket {
	switch {
	case value > BracketUltraFloor:
		return types.BracketUltra
	case value >= BracketPremiumFloor:
		return types.BracketPremium
	default:
		return types.BracketEntry
	}
}

// DefaultScenario is the fixed baseline used when no property price is
// supplied at session creation.
func DefaultScenario() types.ScenarioState {
	return types.ScenarioState{
		PropertyValue:   15_000_000,
		ClosingCosts:    450_000,
		RenovationCosts: 0,

		GrossAnnualRent: 600_000,
		VacancyRate:     10,

		ConciergeService:   120_000,
		SecurityService:    150_000,
		Landscaping:        90_000,
		PoolMaintenance:    60_000,
		WineCellarClimate:  18_000,
		SmartHomeSystems:   22_000,
		PropertyManagement: 150_000,

		LiveInStaff:      2,
		SecurityTeam:     0,
		PropertyManagers: 1,
		AvgStaffSalary:   65_000,

		InfinityPool:       true,
		WineClimateControl: false,
		SmartHomeUpdates:   false,

		PropertyTaxRate: 1.1,
		AnnualInsurance: 75_000,

		LTVRatio:      60,
		InterestRate:  6.5,
		LoanTermYears: 25,

		HoldingStructure: types.StructureLLC,

		BaseAppreciationRate: 3.5,

		HoldPeriodYears:  10,
		TargetExitProfit: 2_000_000,
		PriceBracket:     types.BracketPremium,
		MarketRegion:     "miami-beach",
	}
}
