package services

import (
	"strings"
	"testing"
	"time"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
)

func TestInitializeScenarioBaseline(t *testing.T) {
	state := InitializeScenario(0, "")
	if state.PropertyValue != 15_000_000 {
		t.Errorf("Expected baseline value 15000000 but got %v", state.PropertyValue)
	}
	if state.GrossAnnualRent != 600_000 {
		t.Errorf("Expected baseline rent 600000 but got %v", state.GrossAnnualRent)
	}
}

func TestInitializeScenarioScalesFromPrice(t *testing.T) {
	state := InitializeScenario(6_500_000, "")
	if state.PropertyValue != 6_500_000 {
		t.Errorf("Expected value 6500000 but got %v", state.PropertyValue)
	}
	if state.GrossAnnualRent != 390_000 {
		t.Errorf("Expected rent 390000 (6%% of value) but got %v", state.GrossAnnualRent)
	}
	if state.ClosingCosts != 195_000 {
		t.Errorf("Expected closing 195000 (3%% of value) but got %v", state.ClosingCosts)
	}
	if state.AnnualInsurance != 32_500 {
		t.Errorf("Expected insurance 32500 (0.5%% of value) but got %v", state.AnnualInsurance)
	}
	if state.PriceBracket != types.BracketPremium {
		t.Errorf("Expected premium bracket but got %s", state.PriceBracket)
	}
}

func TestInitializeScenarioDerivesBracketFromPrice(t *testing.T) {
	if got := InitializeScenario(2_000_000, "").PriceBracket; got != types.BracketEntry {
		t.Errorf("Expected entry bracket but got %s", got)
	}
	if got := InitializeScenario(25_000_000, "").PriceBracket; got != types.BracketUltra {
		t.Errorf("Expected ultra bracket but got %s", got)
	}
}

func TestInitializeScenarioDetectsRegionFromAddress(t *testing.T) {
	state := InitializeScenario(8_000_000, "14 Cheyne Walk, Knightsbridge, London")
	if state.MarketRegion != "london" {
		t.Errorf("Expected london but got %s", state.MarketRegion)
	}
}

func TestUpdateScenarioMergesDelta(t *testing.T) {
	state := constants.DefaultScenario()
	rent := 900_000.0
	updated := UpdateScenario(state, &types.ScenarioUpdate{GrossAnnualRent: &rent})
	if updated.GrossAnnualRent != 900_000 {
		t.Errorf("Expected rent 900000 but got %v", updated.GrossAnnualRent)
	}
	if updated.PropertyValue != state.PropertyValue {
		t.Errorf("Expected untouched fields preserved")
	}
}

func TestProcessMessageExtractsAndRecomputes(t *testing.T) {
	state := constants.DefaultScenario()
	result := ProcessMessage("the rent is $100K per month", state)
	if result.State.GrossAnnualRent != 1_200_000 {
		t.Errorf("Expected rent 1200000 but got %v", result.State.GrossAnnualRent)
	}
	if result.AppliedDelta == nil {
		t.Errorf("Expected an applied delta")
	}
	if result.Metrics.EffectiveRent != 1_200_000*(1-state.VacancyRate/100) {
		t.Errorf("Expected metrics recomputed from new rent")
	}
}

func TestProcessMessageGoalShortCircuit(t *testing.T) {
	state := constants.DefaultScenario()
	result := ProcessMessage("minimize my cost", state)
	if result.State.ConciergeService != 0 {
		t.Errorf("Expected concierge zeroed by advice but got %v", result.State.ConciergeService)
	}
	if result.AppliedDelta == nil {
		t.Errorf("Expected the advice delta to be applied")
	}
}

func TestProcessMessageGuidanceOnNoMatch(t *testing.T) {
	state := constants.DefaultScenario()
	result := ProcessMessage("good morning!", state)
	if result.State != state {
		t.Errorf("Expected state untouched on unparseable input")
	}
	if result.AppliedDelta != nil {
		t.Errorf("Expected no delta on unparseable input")
	}
	if !strings.Contains(result.ResponseText, "couldn't pull any parameters") {
		t.Errorf("Expected guidance reply but got: %s", result.ResponseText)
	}
}

func TestSessionStoreLifecycle(t *testing.T) {
	created := SessionStore.Create(6_500_000, "Miami Beach")
	if created.ID == "" {
		t.Fatalf("Expected a session id")
	}
	if created.State.MarketRegion != "miami-beach" {
		t.Errorf("Expected miami-beach but got %s", created.State.MarketRegion)
	}
	if len(created.Messages) != 1 || created.Messages[0].Role != "assistant" {
		t.Errorf("Expected an opening assistant message")
	}

	fetched, err := SessionStore.Get(created.ID)
	if err != nil {
		t.Fatalf("Expected session to be retrievable: %v", err)
	}
	if fetched.State.PropertyValue != 6_500_000 {
		t.Errorf("Expected value 6500000 but got %v", fetched.State.PropertyValue)
	}

	session, reply, err := SessionStore.HandleMessage(created.ID, "turn off the pool")
	if err != nil {
		t.Fatalf("Expected message handling to succeed: %v", err)
	}
	if session.State.PoolMaintenance != 0 {
		t.Errorf("Expected pool maintenance zeroed but got %v", session.State.PoolMaintenance)
	}
	if reply.Role != "assistant" || reply.Text == "" {
		t.Errorf("Expected an assistant reply")
	}
	if len(session.Messages) != 3 {
		t.Errorf("Expected welcome+user+assistant messages but got %d", len(session.Messages))
	}
}

func TestSessionStoreUnknownID(t *testing.T) {
	if _, err := SessionStore.Get("no-such-session"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound but got %v", err)
	}
}

func TestSessionSweepRemovesIdleOnly(t *testing.T) {
	fresh := SessionStore.Create(0, "")
	removed := SessionStore.Sweep(time.Hour)
	if removed != 0 {
		// Sessions from other tests are all recent too.
		t.Errorf("Expected no fresh sessions swept but removed %d", removed)
	}
	if _, err := SessionStore.Get(fresh.ID); err != nil {
		t.Errorf("Expected fresh session to survive sweep: %v", err)
	}
}
