package services

import (
	"regexp"
	"strconv"
	"strings"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
	"vaultbackend/utils/helpers"
)

/*
Natural-language parameter extractor.

ParseUserMessage maps a free-text chat message onto a partial scenario
update. Rules run in a fixed order, most specific first, and each field is
claimed by the first rule that matches it; later, looser rules skip claimed
fields. Every successful extraction appends a human-readable description
used in the chat reply.

The extractor never fails: text that matches nothing returns an empty
update.
*/

var (
	allCashRe = regexp.MustCompile(`(?i)\ball[-\s]?cash\b|\bno\s+(?:loan|mortgage|financing|debt)\b|\bcash\s+(?:purchase|buyer|deal|offer)\b|\bpay(?:ing)?\s+(?:in\s+)?cash\b|\bwithout\s+(?:a\s+)?(?:loan|mortgage)\b`)

	propertyValueRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:asking(?:\s+price)?|list(?:ed|ing)?(?:\s+price)?|priced?\s+at)\D{0,10}?` + helpers.MoneyRx),
		regexp.MustCompile(`(?i)(?:buy(?:ing)?|purchas(?:e|ing)|acquir(?:e|ing))\s+(?:a|an|the)?\s*` + helpers.MoneyRx),
		regexp.MustCompile(`(?i)(?:home|house|villa|property|condo|penthouse|estate|mansion|apartment|place)\s+(?:worth|valued\s+at|for)\s+` + helpers.MoneyRx),
		regexp.MustCompile(`(?i)` + helpers.MoneyRx + `\s+(?:home|house|villa|property|condo|penthouse|estate|mansion|apartment|place)`),
		regexp.MustCompile(`(?i)(?:worth|valued\s+at|value\s+(?:of|is|at))\s+` + helpers.MoneyRx),
		regexp.MustCompile(`(?i)(?:property|home|purchase)\s+(?:value|price)\D{0,10}?` + helpers.MoneyRx),
		regexp.MustCompile(`(?i)\b(?:it|that|this|which|one|home|house|villa|property|condo|penthouse|estate|mansion|apartment|place)\s+costs?\s+(?:about|around|roughly)?\s*` + helpers.MoneyRx),
	}

	downPercentRe = regexp.MustCompile(`(?i)` + helpers.PercentRx + `\s+down\b`)
	downDollarRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:put(?:ting)?|with)?\s*` + helpers.MoneyRx + `\s+down(?:\s+payment)?\b`),
		regexp.MustCompile(`(?i)down\s*payment\s*(?:of|is|:)?\s*` + helpers.MoneyRx),
	}

	rentRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:rent(?:al|ed|s|ing)?(?:\s+(?:income|revenue|out))?|lease[sd]?)\D{0,24}?` + helpers.MoneyRx + `\s*(?:[/]|\bper\b|\ba\b|\beach\b)?\s*(month|mo\b|year|yr|annum|annual\w*)?`),
		regexp.MustCompile(`(?i)` + helpers.MoneyRx + `\s*(?:[/]|\bper\b|\ba\b)\s*(month|mo\b|year|yr)\D{0,16}?\b(?:rent|lease)`),
	}

	interestRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:interest(?:\s+rate)?|mortgage\s+rate|apr|financ(?:e|ed|ing))\D{0,15}?` + helpers.PercentRx),
		regexp.MustCompile(`(?i)` + helpers.PercentRx + `\s*(?:interest|apr|mortgage|rate\b)`),
	}
	interestAtRe = regexp.MustCompile(`(?i)\bat\s+` + helpers.PercentRx)
	// Words that mean an "at NN%" phrase belongs to another field.
	interestAtExcludeRe = regexp.MustCompile(`(?i)(?:vacan|tax|apprecia|occupan|cap\s*rate|ltv|leverage)[a-z]*\s*(?:rate\s*)?(?:of|is|to)?\s*$`)

	ltvRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + helpers.PercentRx + `\s*(?:ltv|leverage|loan[-\s]to[-\s]value)`),
		regexp.MustCompile(`(?i)(?:ltv|leverage|loan[-\s]to[-\s]value)\D{0,12}?` + helpers.PercentRx),
		regexp.MustCompile(`(?i)(?:financ(?:e|ing)|borrow(?:ing)?)\s+` + helpers.PercentRx),
	}

	loanTermRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2})[-\s]*(?:year|yr)s?[-\s]*(?:loan|mortgage|term|fixed|note)`),
		regexp.MustCompile(`(?i)(?:loan|mortgage)(?:\s+term)?\D{0,12}?(\d{1,2})\s*(?:year|yr)`),
		regexp.MustCompile(`(?i)\bover\s+(\d{1,2})\s*(?:year|yr)s?\b`),
	}

	holdPeriodRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)hold(?:ing)?\s*period\D{0,10}?(\d{1,2})`),
		regexp.MustCompile(`(?i)(?:hold|keep|own)(?:\s+(?:it|this|the\s+\w+))?\s+for\s+(\d{1,2})\s*(?:year|yr)`),
		regexp.MustCompile(`(?i)sell(?:ing)?\s+(?:it\s+)?(?:in|after)\s+(\d{1,2})\s*(?:year|yr)`),
	}

	vacancyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)vacan\w*\D{0,15}?` + helpers.PercentRx),
		regexp.MustCompile(`(?i)` + helpers.PercentRx + `\s*vacan`),
	}

	appreciationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)apprecia\w*\D{0,15}?` + helpers.PercentRx),
		regexp.MustCompile(`(?i)` + helpers.PercentRx + `\s*(?:apprecia|growth|annual\s+growth)`),
		regexp.MustCompile(`(?i)grow(?:th|ing|s)?\D{0,12}?` + helpers.PercentRx),
	}

	taxPercentRe = regexp.MustCompile(`(?i)(?:property\s+)?tax(?:es)?\D{0,15}?` + helpers.PercentRx)
	taxDollarRe  = regexp.MustCompile(`(?i)(?:property\s+)?tax(?:es)?\D{0,15}?` + helpers.MoneyRx)

	insuranceRe = regexp.MustCompile(`(?i)insur\w*\D{0,15}?` + helpers.MoneyRx)
	hoaRe       = regexp.MustCompile(`(?i)(?:hoa|condo\s+fees?|association\s+fees?)\D{0,15}?` + helpers.MoneyRx + `\s*(?:[/]|\bper\b|\ba\b)?\s*(month|mo\b)?`)

	closingRe = regexp.MustCompile(`(?i)closing(?:\s+costs?)?\D{0,15}?` + helpers.MoneyRx)

	renovationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:renovat|remodel|refurbish)\w*\D{0,15}?` + helpers.MoneyRx),
		regexp.MustCompile(`(?i)` + helpers.MoneyRx + `\D{0,10}?(?:renovat|remodel|refurbish)`),
	}
	needsRenovationRe = regexp.MustCompile(`(?i)needs?\s+(?:a\s+|some\s+)?(?:renovation|work|updating|remodel(?:ing)?|refurbishment)`)

	targetProfitRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:target\s+)?(?:exit\s+)?profit\s*(?:of|is|:)?\s*` + helpers.MoneyRx),
		regexp.MustCompile(`(?i)` + helpers.MoneyRx + `\s+(?:in\s+)?profit`),
		regexp.MustCompile(`(?i)(?:make|clear|net)\s+` + helpers.MoneyRx + `\s+(?:when|on|at)\s+(?:i\s+|we\s+)?(?:sell|exit)`),
	}

	salaryRe = regexp.MustCompile(`(?i)salar(?:y|ies)\D{0,15}?` + helpers.MoneyRx)

	staffRes = []struct {
		re    *regexp.Regexp
		field string
	}{
		{regexp.MustCompile(`(?i)(\d{1,2})\s+(?:live[-\s]?in\s+)?(?:staff|housekeepers?|butlers?)`), "liveInStaff"},
		{regexp.MustCompile(`(?i)(\d{1,2})\s+security\s+(?:team|guards?|personnel|officers?)`), "securityTeam"},
		{regexp.MustCompile(`(?i)(\d{1,2})\s+(?:property\s+)?managers?`), "propertyManagers"},
	}
	removeAllStaffRe = regexp.MustCompile(`(?i)(?:remove|cut|fire|eliminate|no)\s+(?:all\s+)?(?:the\s+)?staff`)

	tokenRe             = regexp.MustCompile(`[a-z0-9$%]+`)
	negationTokens      = map[string]bool{"off": true, "remove": true, "disable": true, "cut": true, "without": true, "eliminate": true, "cancel": true, "stop": true}
	clauseBreakTokens   = map[string]bool{"and": true, "but": true, "then": true, "plus": true, "while": true, "also": true}
	negationWindow      = 8
	serviceAmountRe     = regexp.MustCompile(`(?i)^\D{0,15}?` + helpers.MoneyRx)
	securityHeadcountRe = regexp.MustCompile(`(?i)security\s+(?:team|guards?|personnel|officers?)`)
)

// serviceKeyword binds a phrase to a cost field and an optional linked flag.
// Ordered longest-phrase-first so "pool maintenance" wins over "pool".
var serviceKeywords = []struct {
	phrase string
	field  string
}{
	{"property management", "propertyManagement"},
	{"management fee", "propertyManagement"},
	{"pool maintenance", "poolMaintenance"},
	{"infinity pool", "poolMaintenance"},
	{"wine cellar", "wineCellarClimate"},
	{"wine climate", "wineCellarClimate"},
	{"smart home", "smartHomeSystems"},
	{"home automation", "smartHomeSystems"},
	{"landscaping", "landscaping"},
	{"gardening", "landscaping"},
	{"concierge", "conciergeService"},
	{"security", "securityService"},
	{"garden", "landscaping"},
	{"pool", "poolMaintenance"},
	{"wine", "wineCellarClimate"},
}

var serviceLabels = map[string]string{
	"conciergeService":   "Concierge service",
	"securityService":    "Security service",
	"landscaping":        "Landscaping",
	"poolMaintenance":    "Pool maintenance",
	"wineCellarClimate":  "Wine cellar climate",
	"smartHomeSystems":   "Smart home systems",
	"propertyManagement": "Property management",
}

// structureKeywords maps phrases to holding structures. "personal" phrases
// come last so "llc" and "trust" always win when both appear.
var structureKeywords = []struct {
	phrase    string
	structure types.HoldingStructure
}{
	{"limited liability", types.StructureLLC},
	{"llc", types.StructureLLC},
	{"trust", types.StructureTrust},
	{"offshore", types.StructureForeign},
	{"foreign entity", types.StructureForeign},
	{"foreign company", types.StructureForeign},
	{"foreign", types.StructureForeign},
	{"own name", types.StructurePersonal},
	{"personal name", types.StructurePersonal},
	{"personally", types.StructurePersonal},
	{"individual", types.StructurePersonal},
}

var structureLabels = map[types.HoldingStructure]string{
	types.StructurePersonal: "Personal",
	types.StructureLLC:      "LLC",
	types.StructureTrust:    "Trust",
	types.StructureForeign:  "Foreign entity",
}

var scarcityKeywords = []struct {
	re    *regexp.Regexp
	field string
	label string
}{
	{regexp.MustCompile(`(?i)beachfront|oceanfront|private\s+beach`), "privateBeach", "Private beach"},
	{regexp.MustCompile(`(?i)historic|heritage|landmark`), "heritageStatus", "Heritage status"},
	{regexp.MustCompile(`(?i)starchitect|famous\s+architect|renowned\s+architect`), "starchitectDesign", "Starchitect design"},
	{regexp.MustCompile(`(?i)(?:panoramic|unique|ocean|skyline)\s+views?`), "uniqueView", "Unique view"},
}

// catchAllEntry drives the generic "set X to Y" rule. Keys are matched
// longest-first; kind selects the value parser.
type catchAllEntry struct {
	key  string
	kind string // "money", "percent", "years"
}

var catchAllTable = []catchAllEntry{
	{"property management", "money"},
	{"renovation budget", "money"},
	{"renovation costs", "money"},
	{"property value", "money"},
	{"appreciation rate", "percent"},
	{"interest rate", "percent"},
	{"property tax", "percent"},
	{"closing costs", "money"},
	{"vacancy rate", "percent"},
	{"staff salary", "money"},
	{"hold period", "years"},
	{"loan term", "years"},
	{"appreciation", "percent"},
	{"renovation", "money"},
	{"insurance", "money"},
	{"vacancy", "percent"},
	{"interest", "percent"},
	{"closing", "money"},
	{"profit", "money"},
	{"rent", "money"},
	{"ltv", "percent"},
}

var catchAllRe = regexp.MustCompile(`(?i)(?:set|change|adjust|make|put|update)\s+(?:the\s+|my\s+|our\s+)?([a-z ]{3,24}?)\s+(?:to|at)\s+([$\d][\w.,$ ]*)`)

// extraction accumulates the update and descriptions while rules run.
type extraction struct {
	text         string
	update       types.ScenarioUpdate
	descriptions []string
	currentValue float64
}

// ParseUserMessage extracts scenario parameters from one chat message.
// currentPropertyValue anchors ratio-derived fields (down payments, service
// defaults) when the message itself does not state a price.
func ParseUserMessage(text string, currentPropertyValue float64) (types.ScenarioUpdate, []string) {
	ex := &extraction{
		text:         helpers.NormalizeString(text),
		currentValue: currentPropertyValue,
	}

	ex.extractAllCash()
	ex.extractPropertyValue()
	ex.extractDownPayment()
	ex.extractRent()
	ex.extractInterest()
	ex.extractLTV()
	ex.extractLoanTerm()
	ex.extractHoldPeriod()
	ex.extractVacancy()
	ex.extractAppreciation()
	ex.extractPropertyTax()
	ex.extractInsurance()
	ex.extractClosing()
	ex.extractRenovation()
	ex.extractRegion()
	ex.extractStructure()
	ex.extractTargetProfit()
	ex.extractCatchAll()
	ex.extractServiceToggles()
	ex.extractStaffing()
	ex.extractScarcity()

	return ex.update, ex.descriptions
}

func (ex *extraction) describe(s string) {
	ex.descriptions = append(ex.descriptions, s)
}

// effectiveValue prefers a price stated in this message over the current one.
func (ex *extraction) effectiveValue() float64 {
	if ex.update.PropertyValue != nil {
		return *ex.update.PropertyValue
	}
	return ex.currentValue
}

func (ex *extraction) extractAllCash() {
	if !allCashRe.MatchString(ex.text) {
		return
	}
	zero := 0.0
	ex.update.LTVRatio = &zero
	ex.describe("All-cash purchase → LTV 0%")
}

func (ex *extraction) extractPropertyValue() {
	for _, re := range propertyValueRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		v := helpers.MoneyFromMatch(m[1], m[2])
		if v < 100_000 {
			continue
		}
		ex.update.PropertyValue = &v
		ex.describe("Property value → " + helpers.FormatMoney(v))
		return
	}
}

func (ex *extraction) extractDownPayment() {
	if ex.update.LTVRatio != nil {
		return
	}
	if m := downPercentRe.FindStringSubmatch(ex.text); m != nil {
		pct, _ := strconv.ParseFloat(m[1], 64)
		ltv := helpers.Clamp(100-pct, 0, 100)
		ex.update.LTVRatio = &ltv
		ex.describe("Down payment → LTV " + helpers.FormatPercent(ltv))
		return
	}
	value := ex.effectiveValue()
	if value <= 0 {
		return
	}
	for _, re := range downDollarRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		down := helpers.MoneyFromMatch(m[1], m[2])
		if down <= 0 || down >= value {
			continue
		}
		ltv := helpers.Clamp(helpers.RoundToNearest((value-down)/value*100, 5), 0, 100)
		ex.update.LTVRatio = &ltv
		ex.describe("Down payment " + helpers.FormatMoney(down) + " → LTV " + helpers.FormatPercent(ltv))
		return
	}
}

func (ex *extraction) extractRent() {
	for _, re := range rentRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		amount := helpers.MoneyFromMatch(m[1], m[2])
		if amount <= 0 {
			continue
		}
		period := ""
		if len(m) > 3 {
			period = m[3]
		}
		annual := amount
		if strings.HasPrefix(period, "month") || strings.HasPrefix(period, "mo") {
			annual = amount * 12
		}
		ex.update.GrossAnnualRent = &annual
		ex.describe("Annual rent → " + helpers.FormatMoney(annual))
		return
	}
}

func (ex *extraction) extractInterest() {
	for _, re := range interestRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		rate, _ := strconv.ParseFloat(m[1], 64)
		ex.setInterest(rate)
		return
	}
	// Loose fallback: a bare "at NN%" reads as a financing rate unless the
	// words just before it bind the percent to another field.
	for _, loc := range interestAtRe.FindAllStringSubmatchIndex(ex.text, -1) {
		prefix := ex.text[:loc[0]]
		if len(prefix) > 30 {
			prefix = prefix[len(prefix)-30:]
		}
		if interestAtExcludeRe.MatchString(prefix) {
			continue
		}
		rate, _ := strconv.ParseFloat(ex.text[loc[2]:loc[3]], 64)
		ex.setInterest(rate)
		return
	}
}

func (ex *extraction) setInterest(rate float64) {
	if rate <= 0 || rate > 25 {
		return
	}
	ex.update.InterestRate = &rate
	ex.describe("Interest rate → " + helpers.FormatPercent(rate))
}

func (ex *extraction) extractLTV() {
	if ex.update.LTVRatio != nil {
		return
	}
	for _, re := range ltvRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		ltv, _ := strconv.ParseFloat(m[1], 64)
		ltv = helpers.Clamp(ltv, 0, 100)
		ex.update.LTVRatio = &ltv
		ex.describe("LTV → " + helpers.FormatPercent(ltv))
		return
	}
}

func (ex *extraction) extractLoanTerm() {
	for _, re := range loanTermRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		years, _ := strconv.Atoi(m[1])
		years = int(helpers.Clamp(float64(years), 5, 30))
		ex.update.LoanTermYears = &years
		ex.describe("Loan term → " + strconv.Itoa(years) + " years")
		return
	}
}

func (ex *extraction) extractHoldPeriod() {
	for _, re := range holdPeriodRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		years, _ := strconv.Atoi(m[1])
		years = int(helpers.Clamp(float64(years), 1, 30))
		ex.update.HoldPeriodYears = &years
		ex.describe("Hold period → " + strconv.Itoa(years) + " years")
		return
	}
}

func (ex *extraction) extractVacancy() {
	for _, re := range vacancyRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		pct, _ := strconv.ParseFloat(m[1], 64)
		pct = helpers.Clamp(pct, 0, 100)
		ex.update.VacancyRate = &pct
		ex.describe("Vacancy rate → " + helpers.FormatPercent(pct))
		return
	}
}

func (ex *extraction) extractAppreciation() {
	for _, re := range appreciationRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		pct, _ := strconv.ParseFloat(m[1], 64)
		if pct <= 0 || pct > 20 {
			continue
		}
		ex.update.BaseAppreciationRate = &pct
		ex.describe("Appreciation → " + helpers.FormatPercent(pct))
		return
	}
}

func (ex *extraction) extractPropertyTax() {
	if m := taxPercentRe.FindStringSubmatch(ex.text); m != nil {
		pct, _ := strconv.ParseFloat(m[1], 64)
		if pct > 0 && pct <= 10 {
			ex.update.PropertyTaxRate = &pct
			ex.describe("Property tax → " + helpers.FormatPercent(pct))
			return
		}
	}
	value := ex.effectiveValue()
	if value <= 0 {
		return
	}
	if m := taxDollarRe.FindStringSubmatch(ex.text); m != nil {
		dollars := helpers.MoneyFromMatch(m[1], m[2])
		if dollars <= 0 {
			return
		}
		rate := dollars / value * 100
		ex.update.PropertyTaxRate = &rate
		ex.describe("Property tax " + helpers.FormatMoney(dollars) + " → " + helpers.FormatPercent(rate))
	}
}

func (ex *extraction) extractInsurance() {
	if m := insuranceRe.FindStringSubmatch(ex.text); m != nil {
		v := helpers.MoneyFromMatch(m[1], m[2])
		if v > 0 {
			ex.update.AnnualInsurance = &v
			ex.describe("Insurance → " + helpers.FormatMoney(v))
			return
		}
	}
	// HOA and condo fees have no slot of their own; fold them into the
	// insurance line as a carrying-cost proxy.
	if m := hoaRe.FindStringSubmatch(ex.text); m != nil {
		v := helpers.MoneyFromMatch(m[1], m[2])
		if v <= 0 {
			return
		}
		if len(m) > 3 && m[3] != "" {
			v *= 12
		}
		ex.update.AnnualInsurance = &v
		ex.describe("HOA fees → " + helpers.FormatMoney(v) + " (as insurance)")
	}
}

func (ex *extraction) extractClosing() {
	m := closingRe.FindStringSubmatch(ex.text)
	if m == nil {
		return
	}
	v := helpers.MoneyFromMatch(m[1], m[2])
	if v <= 0 {
		return
	}
	ex.update.ClosingCosts = &v
	ex.describe("Closing costs → " + helpers.FormatMoney(v))
}

func (ex *extraction) extractRenovation() {
	for _, re := range renovationRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		v := helpers.MoneyFromMatch(m[1], m[2])
		if v <= 0 {
			continue
		}
		ex.update.RenovationCosts = &v
		ex.describe("Renovation budget → " + helpers.FormatMoney(v))
		return
	}
	if needsRenovationRe.MatchString(ex.text) {
		value := ex.effectiveValue()
		if value <= 0 {
			return
		}
		v := value * 0.04
		ex.update.RenovationCosts = &v
		ex.describe("Renovation budget → " + helpers.FormatMoney(v) + " (4% of value)")
	}
}

func (ex *extraction) extractRegion() {
	for _, region := range constants.Regions {
		for _, kw := range region.Keywords {
			if strings.Contains(ex.text, kw) {
				id := region.ID
				ex.update.MarketRegion = &id
				ex.describe("Market region → " + region.Label)
				return
			}
		}
	}
}

func (ex *extraction) extractStructure() {
	for _, entry := range structureKeywords {
		if strings.Contains(ex.text, entry.phrase) {
			s := entry.structure
			ex.update.HoldingStructure = &s
			ex.describe("Holding structure → " + structureLabels[s])
			return
		}
	}
}

func (ex *extraction) extractTargetProfit() {
	for _, re := range targetProfitRes {
		m := re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		v := helpers.MoneyFromMatch(m[1], m[2])
		if v <= 0 {
			continue
		}
		ex.update.TargetExitProfit = &v
		ex.describe("Target exit profit → " + helpers.FormatMoney(v))
		return
	}
}

func (ex *extraction) extractCatchAll() {
	for _, m := range catchAllRe.FindAllStringSubmatch(ex.text, -1) {
		name := strings.TrimSpace(m[1])
		raw := strings.TrimSpace(m[2])
		for _, entry := range catchAllTable {
			if !strings.Contains(name, entry.key) {
				continue
			}
			ex.applyCatchAll(entry, raw)
			break
		}
	}
}

// applyCatchAll dispatches a generic "set X to Y" hit onto its field,
// honoring claims made by the specific rules above.
func (ex *extraction) applyCatchAll(entry catchAllEntry, raw string) {
	parsePercent := func() (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimRight(strings.TrimSpace(strings.TrimSuffix(raw, "percent")), "% "), 64)
		return v, err == nil
	}
	parseYears := func() (int, bool) {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			return 0, false
		}
		v, err := strconv.Atoi(fields[0])
		return v, err == nil
	}

	switch entry.key {
	case "property value":
		if ex.update.PropertyValue == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v >= 100_000 {
				ex.update.PropertyValue = &v
				ex.describe("Property value → " + helpers.FormatMoney(v))
			}
		}
	case "rent":
		if ex.update.GrossAnnualRent == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v > 0 {
				ex.update.GrossAnnualRent = &v
				ex.describe("Annual rent → " + helpers.FormatMoney(v))
			}
		}
	case "interest rate", "interest":
		if ex.update.InterestRate == nil {
			if v, ok := parsePercent(); ok {
				ex.setInterest(v)
			}
		}
	case "ltv":
		if ex.update.LTVRatio == nil {
			if v, ok := parsePercent(); ok {
				ltv := helpers.Clamp(v, 0, 100)
				ex.update.LTVRatio = &ltv
				ex.describe("LTV → " + helpers.FormatPercent(ltv))
			}
		}
	case "vacancy rate", "vacancy":
		if ex.update.VacancyRate == nil {
			if v, ok := parsePercent(); ok {
				pct := helpers.Clamp(v, 0, 100)
				ex.update.VacancyRate = &pct
				ex.describe("Vacancy rate → " + helpers.FormatPercent(pct))
			}
		}
	case "appreciation rate", "appreciation":
		if ex.update.BaseAppreciationRate == nil {
			if v, ok := parsePercent(); ok && v > 0 && v <= 20 {
				ex.update.BaseAppreciationRate = &v
				ex.describe("Appreciation → " + helpers.FormatPercent(v))
			}
		}
	case "property tax":
		if ex.update.PropertyTaxRate == nil {
			if v, ok := parsePercent(); ok && v > 0 && v <= 10 {
				ex.update.PropertyTaxRate = &v
				ex.describe("Property tax → " + helpers.FormatPercent(v))
			}
		}
	case "loan term":
		if ex.update.LoanTermYears == nil {
			if v, ok := parseYears(); ok {
				years := int(helpers.Clamp(float64(v), 5, 30))
				ex.update.LoanTermYears = &years
				ex.describe("Loan term → " + strconv.Itoa(years) + " years")
			}
		}
	case "hold period":
		if ex.update.HoldPeriodYears == nil {
			if v, ok := parseYears(); ok {
				years := int(helpers.Clamp(float64(v), 1, 30))
				ex.update.HoldPeriodYears = &years
				ex.describe("Hold period → " + strconv.Itoa(years) + " years")
			}
		}
	case "insurance":
		if ex.update.AnnualInsurance == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v > 0 {
				ex.update.AnnualInsurance = &v
				ex.describe("Insurance → " + helpers.FormatMoney(v))
			}
		}
	case "closing costs", "closing":
		if ex.update.ClosingCosts == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v > 0 {
				ex.update.ClosingCosts = &v
				ex.describe("Closing costs → " + helpers.FormatMoney(v))
			}
		}
	case "renovation budget", "renovation costs", "renovation":
		if ex.update.RenovationCosts == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v > 0 {
				ex.update.RenovationCosts = &v
				ex.describe("Renovation budget → " + helpers.FormatMoney(v))
			}
		}
	case "staff salary":
		if ex.update.AvgStaffSalary == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v > 0 {
				ex.update.AvgStaffSalary = &v
				ex.describe("Staff salary → " + helpers.FormatMoney(v))
			}
		}
	case "property management":
		if ex.update.PropertyManagement == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v >= 0 {
				ex.update.PropertyManagement = &v
				ex.describe("Property management → " + helpers.FormatMoney(v))
			}
		}
	case "profit":
		if ex.update.TargetExitProfit == nil {
			if v, ok := helpers.ParseMoney(raw); ok && v > 0 {
				ex.update.TargetExitProfit = &v
				ex.describe("Target exit profit → " + helpers.FormatMoney(v))
			}
		}
	}
}

func (ex *extraction) extractServiceToggles() {
	tokens := tokenRe.FindAllStringIndex(ex.text, -1)
	for _, kw := range serviceKeywords {
		idx := strings.Index(ex.text, kw.phrase)
		if idx < 0 {
			continue
		}
		if ex.serviceClaimed(kw.field) {
			continue
		}
		// "security" as a headcount phrase belongs to the staffing rules.
		if kw.phrase == "security" && securityHeadcountRe.MatchString(ex.text) {
			continue
		}
		if ex.negatedAt(tokens, idx) {
			ex.setServiceCost(kw.field, 0, false)
			ex.describe(serviceLabels[kw.field] + " → off")
			continue
		}
		rest := ex.text[idx+len(kw.phrase):]
		if m := serviceAmountRe.FindStringSubmatch(rest); m != nil {
			v := helpers.MoneyFromMatch(m[1], m[2])
			// Bare small numbers after a keyword are not budgets.
			if v >= 1000 {
				ex.setServiceCost(kw.field, v, true)
				ex.describe(serviceLabels[kw.field] + " → " + helpers.FormatMoney(v))
				continue
			}
		}
		value := ex.effectiveValue()
		if value <= 0 {
			continue
		}
		v := helpers.RoundToNearest(value*constants.ServiceCostRatios[kw.field], 5000)
		ex.setServiceCost(kw.field, v, true)
		ex.describe(serviceLabels[kw.field] + " → " + helpers.FormatMoney(v))
	}
}

// negatedAt reports whether a disable verb appears within the preceding
// token window of the keyword at byte offset idx. The scan stays inside
// the keyword's own clause: a conjunction token or intervening
// punctuation ends it.
func (ex *extraction) negatedAt(tokens [][]int, idx int) bool {
	seen := 0
	end := idx
	for i := len(tokens) - 1; i >= 0 && seen < negationWindow; i-- {
		if tokens[i][0] >= idx {
			continue
		}
		if strings.ContainsAny(ex.text[tokens[i][1]:end], ",;.") {
			return false
		}
		end = tokens[i][0]
		word := ex.text[tokens[i][0]:tokens[i][1]]
		if clauseBreakTokens[word] {
			return false
		}
		seen++
		if negationTokens[word] {
			return true
		}
	}
	return false
}

func (ex *extraction) serviceClaimed(field string) bool {
	switch field {
	case "conciergeService":
		return ex.update.ConciergeService != nil
	case "securityService":
		return ex.update.SecurityService != nil
	case "landscaping":
		return ex.update.Landscaping != nil
	case "poolMaintenance":
		return ex.update.PoolMaintenance != nil
	case "wineCellarClimate":
		return ex.update.WineCellarClimate != nil
	case "smartHomeSystems":
		return ex.update.SmartHomeSystems != nil
	case "propertyManagement":
		return ex.update.PropertyManagement != nil
	}
	return true
}

// setServiceCost writes a service budget and keeps its linked maintenance
// flag in step.
func (ex *extraction) setServiceCost(field string, amount float64, on bool) {
	flag := on
	switch field {
	case "conciergeService":
		ex.update.ConciergeService = &amount
	case "securityService":
		ex.update.SecurityService = &amount
	case "landscaping":
		ex.update.Landscaping = &amount
	case "poolMaintenance":
		ex.update.PoolMaintenance = &amount
		ex.update.InfinityPool = &flag
	case "wineCellarClimate":
		ex.update.WineCellarClimate = &amount
		ex.update.WineClimateControl = &flag
	case "smartHomeSystems":
		ex.update.SmartHomeSystems = &amount
		ex.update.SmartHomeUpdates = &flag
	case "propertyManagement":
		ex.update.PropertyManagement = &amount
	}
}

func (ex *extraction) extractStaffing() {
	if removeAllStaffRe.MatchString(ex.text) {
		zero := 0
		ex.update.LiveInStaff = &zero
		ex.update.SecurityTeam = &zero
		ex.update.PropertyManagers = &zero
		ex.describe("Staffing → none")
		return
	}
	for _, entry := range staffRes {
		m := entry.re.FindStringSubmatch(ex.text)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		switch entry.field {
		case "liveInStaff":
			if ex.update.LiveInStaff == nil {
				ex.update.LiveInStaff = &n
				ex.describe("Live-in staff → " + strconv.Itoa(n))
			}
		case "securityTeam":
			if ex.update.SecurityTeam == nil {
				ex.update.SecurityTeam = &n
				ex.describe("Security team → " + strconv.Itoa(n))
			}
		case "propertyManagers":
			if ex.update.PropertyManagers == nil {
				ex.update.PropertyManagers = &n
				ex.describe("Property managers → " + strconv.Itoa(n))
			}
		}
	}
	if m := salaryRe.FindStringSubmatch(ex.text); m != nil && ex.update.AvgStaffSalary == nil {
		v := helpers.MoneyFromMatch(m[1], m[2])
		if v > 0 {
			ex.update.AvgStaffSalary = &v
			ex.describe("Staff salary → " + helpers.FormatMoney(v))
		}
	}
}

// extractScarcity only ever turns flags on; text never clears a scarcity
// attribute.
func (ex *extraction) extractScarcity() {
	on := true
	for _, entry := range scarcityKeywords {
		if !entry.re.MatchString(ex.text) {
			continue
		}
		switch entry.field {
		case "privateBeach":
			if ex.update.PrivateBeach == nil {
				ex.update.PrivateBeach = &on
				ex.describe(entry.label + " → on")
			}
		case "heritageStatus":
			if ex.update.HeritageStatus == nil {
				ex.update.HeritageStatus = &on
				ex.describe(entry.label + " → on")
			}
		case "starchitectDesign":
			if ex.update.StarchitectDesign == nil {
				ex.update.StarchitectDesign = &on
				ex.describe(entry.label + " → on")
			}
		case "uniqueView":
			if ex.update.UniqueView == nil {
				ex.update.UniqueView = &on
				ex.describe(entry.label + " → on")
			}
		}
	}
}
