package services

import (
	"strings"
	"testing"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
)

func bundleFor(state types.ScenarioState) types.MetricsBundle {
	return ComputeMetrics(state)
}

func TestBulkIntakeSummarySelectedAtFourFields(t *testing.T) {
	state := constants.DefaultScenario()
	update, descriptions := ParseUserMessage(
		"It's a $6.5M villa in Miami Beach, rented at $35K/month, 30% down at 6.5% over 30 years", state.PropertyValue)
	newState := update.Apply(state)
	text := RenderNarrative(update, descriptions, newState, bundleFor(newState))

	if !strings.Contains(text, "Instant Analysis") {
		t.Errorf("Expected intake summary with Instant Analysis block, got: %s", text)
	}
	for _, header := range []string{"Property", "Income", "Financing"} {
		if !strings.Contains(text, header) {
			t.Errorf("Expected %s header in intake summary", header)
		}
	}
}

func TestIncrementalSummarySelectedBelowFourFields(t *testing.T) {
	state := constants.DefaultScenario()
	update, descriptions := ParseUserMessage("turn off the pool", state.PropertyValue)
	newState := update.Apply(state)
	text := RenderNarrative(update, descriptions, newState, bundleFor(newState))

	if strings.Contains(text, "Instant Analysis") {
		t.Errorf("Expected incremental summary, not intake, got: %s", text)
	}
	if !strings.Contains(text, "Updated:") {
		t.Errorf("Expected changed-lines section, got: %s", text)
	}
	if !strings.Contains(text, "Break-even") {
		t.Errorf("Expected break-even walkthrough, got: %s", text)
	}
}

func TestCapRateRemarkThresholds(t *testing.T) {
	if got := capRateRemark(1.5); !strings.Contains(got, "thin") {
		t.Errorf("Expected thin remark for 1.5 but got %s", got)
	}
	if got := capRateRemark(3); !strings.Contains(got, "normal band") {
		t.Errorf("Expected normal-band remark for 3 but got %s", got)
	}
	if got := capRateRemark(4); !strings.Contains(got, "Strong") {
		t.Errorf("Expected strong remark for 4 but got %s", got)
	}
}

func TestIRRRemarkThresholds(t *testing.T) {
	if got := irrRemark(3.9); !strings.Contains(got, "Below") {
		t.Errorf("Expected below remark for 3.9 but got %s", got)
	}
	if got := irrRemark(5); !strings.Contains(got, "Acceptable") {
		t.Errorf("Expected acceptable remark for 5 but got %s", got)
	}
	if got := irrRemark(8); !strings.Contains(got, "Solid") {
		t.Errorf("Expected solid remark for 8 but got %s", got)
	}
	if got := irrRemark(12); !strings.Contains(got, "Exceptional") {
		t.Errorf("Expected exceptional remark for 12 but got %s", got)
	}
}

func TestBreakEvenRemark(t *testing.T) {
	if got := breakEvenRemark(2, 3); !strings.Contains(got, "covers") {
		t.Errorf("Expected covered remark but got %s", got)
	}
	if got := breakEvenRemark(5, 3); !strings.Contains(got, "does not cover") {
		t.Errorf("Expected shortfall remark but got %s", got)
	}
}

func TestGuidanceMessageListsExamples(t *testing.T) {
	msg := GuidanceMessage()
	if !strings.Contains(msg, "Miami Beach") || !strings.Contains(msg, "minimize") {
		t.Errorf("Expected example phrases in guidance message, got: %s", msg)
	}
}
