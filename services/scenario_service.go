package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vaultbackend/types"
	"vaultbackend/utils/constants"
	"vaultbackend/utils/helpers"
)

// ErrSessionNotFound is returned for unknown or already-swept session ids.
var ErrSessionNotFound = errors.New("session not found")

// InitializeScenario builds the starting state. A supplied price rescales
// the income and cost defaults proportionally; a supplied address seeds the
// market region through the same keyword table the chat extractor uses.
func InitializeScenario(propertyValue float64, address string) types.ScenarioState {
	state := constants.DefaultScenario()

	if propertyValue > 0 {
		state.PropertyValue = propertyValue
		state.GrossAnnualRent = propertyValue * constants.InitRentRatio
		state.ClosingCosts = propertyValue * constants.InitClosingRatio
		state.AnnualInsurance = propertyValue * constants.InitInsuranceRatio
		state.PriceBracket = constants.BracketForValue(propertyValue)
	}

	if address != "" {
		normalized := helpers.NormalizeString(address)
		for _, region := range constants.Regions {
			for _, kw := range region.Keywords {
				if strings.Contains(normalized, kw) {
					state.MarketRegion = region.ID
					return state
				}
			}
		}
	}
	return state
}

// UpdateScenario merges a partial update onto the current state. Shallow,
// last writer wins.
func UpdateScenario(current types.ScenarioState, delta *types.ScenarioUpdate) types.ScenarioState {
	return delta.Apply(current)
}

// ProcessResult is the outcome of one chat message: the new state, its
// recomputed metrics, the reply text and whatever delta was applied.
type ProcessResult struct {
	State        types.ScenarioState
	Metrics      types.MetricsBundle
	ResponseText string
	AppliedDelta *types.ScenarioUpdate
}

// ProcessMessage runs one chat turn: goal phrases short-circuit into the
// advice engine, anything else goes through extraction, merge, recompute
// and narrative. A message that yields neither returns a guidance reply and
// leaves the state untouched.
func ProcessMessage(text string, state types.ScenarioState) ProcessResult {
	if isAdvice, goal := DetectGoal(text); isAdvice {
		advice := GenerateAdvice(goal, state, ComputeMetrics(state))
		newState := advice.Recommended.Apply(state)
		return ProcessResult{
			State:        newState,
			Metrics:      ComputeMetrics(newState),
			ResponseText: advice.Text,
			AppliedDelta: advice.Recommended,
		}
	}

	update, descriptions := ParseUserMessage(text, state.PropertyValue)
	if update.IsEmpty() {
		return ProcessResult{
			State:        state,
			Metrics:      ComputeMetrics(state),
			ResponseText: GuidanceMessage(),
		}
	}

	newState := update.Apply(state)
	metrics := ComputeMetrics(newState)
	return ProcessResult{
		State:        newState,
		Metrics:      metrics,
		ResponseText: RenderNarrative(update, descriptions, newState, metrics),
		AppliedDelta: &update,
	}
}

// SessionStoreI is what the controllers program against.
type SessionStoreI interface {
	Create(propertyValue float64, address string) types.Session
	Get(id string) (types.Session, error)
	ApplyDelta(id string, delta *types.ScenarioUpdate) (types.Session, error)
	HandleMessage(id, text string) (types.Session, types.ChatMessage, error)
	Sweep(maxIdle time.Duration) int
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*types.Session
}

// SessionStore holds every live simulator conversation, in memory only.
var SessionStore SessionStoreI = &sessionStore{sessions: map[string]*types.Session{}}

func (s *sessionStore) Create(propertyValue float64, address string) types.Session {
	state := InitializeScenario(propertyValue, address)
	now := time.Now().UTC()
	sess := &types.Session{
		ID:      uuid.NewString(),
		State:   state,
		Metrics: ComputeMetrics(state),
		Messages: []types.ChatMessage{{
			ID:        uuid.NewString(),
			Role:      "assistant",
			Text:      WelcomeMessage(state),
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	zap.L().Info("simulator session created",
		zap.String("sessionId", sess.ID),
		zap.Float64("propertyValue", state.PropertyValue),
		zap.String("marketRegion", state.MarketRegion))
	return *sess
}

func (s *sessionStore) Get(id string) (types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

func (s *sessionStore) ApplyDelta(id string, delta *types.ScenarioUpdate) (types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	sess.State = UpdateScenario(sess.State, delta)
	sess.Metrics = ComputeMetrics(sess.State)
	sess.UpdatedAt = time.Now().UTC()
	return *sess, nil
}

func (s *sessionStore) HandleMessage(id, text string) (types.Session, types.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return types.Session{}, types.ChatMessage{}, ErrSessionNotFound
	}

	now := time.Now().UTC()
	sess.Messages = append(sess.Messages, types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "user",
		Text:      text,
		Timestamp: now,
	})

	result := ProcessMessage(text, sess.State)
	sess.State = result.State
	sess.Metrics = result.Metrics
	sess.UpdatedAt = now

	reply := types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "assistant",
		Text:      result.ResponseText,
		Delta:     result.AppliedDelta,
		Timestamp: time.Now().UTC(),
	}
	sess.Messages = append(sess.Messages, reply)
	return *sess, reply, nil
}

// Sweep drops sessions idle for longer than maxIdle and reports how many
// were removed.
func (s *sessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		zap.L().Info("swept idle simulator sessions", zap.Int("removed", removed))
	}
	return removed
}
