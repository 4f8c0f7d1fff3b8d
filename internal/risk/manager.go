package risk

import (
	"context"
	"fmt"
	"log"
	"math"

	"penny-wise/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Advisor is an optional external evaluator that may propose a decision.
// Its output is advisory only: any error or unparsable reply routes the
// evaluation back to the deterministic rules.
type Advisor interface {
	Propose(ctx context.Context, summary string) (*Proposal, error)
}

// Proposal is the structured decision an advisor may return.
type Proposal struct {
	Approved bool   `json:"approved"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// Manager applies position-sizing rules. Evaluate never fails: internal
// errors degrade to a rejection, advisory errors degrade to the rules.
type Manager struct {
	tracer            trace.Tracer
	advisor           Advisor
	exposureLimit     float64
	assumedSharePrice float64
}

func NewManager(tracer trace.Tracer, advisor Advisor, exposureLimit, assumedSharePrice float64) *Manager {
	if exposureLimit <= 0 || exposureLimit > 1 {
		exposureLimit = 0.10
	}
	if assumedSharePrice <= 0 {
		assumedSharePrice = 200
	}
	return &Manager{
		tracer:            tracer,
		advisor:           advisor,
		exposureLimit:     exposureLimit,
		assumedSharePrice: assumedSharePrice,
	}
}

// Evaluate sizes the strategy against available capital.
func (m *Manager) Evaluate(ctx context.Context, strategy domain.Strategy, portfolio domain.Portfolio, capital float64) domain.RiskDecision {
	ctx, span := m.tracer.Start(ctx, "risk.evaluate")
	defer span.End()

	if m.advisor != nil {
		if decision := m.tryAdvisor(ctx, strategy, portfolio, capital); decision != nil {
			return *decision
		}
	}

	return m.evaluateRules(strategy, capital)
}

// tryAdvisor asks the external evaluator; nil means fall through to rules.
func (m *Manager) tryAdvisor(ctx context.Context, strategy domain.Strategy, portfolio domain.Portfolio, capital float64) *domain.RiskDecision {
	summary := Summarize(strategy, portfolio, capital)
	proposal, err := m.advisor.Propose(ctx, summary)
	if err != nil {
		log.Printf("risk advisor unavailable, using rule-based evaluation: %v", err)
		return nil
	}
	if proposal == nil || proposal.Reason == "" || proposal.Quantity < 0 {
		log.Printf("risk advisor returned an invalid proposal, using rule-based evaluation")
		return nil
	}

	adjusted := strategy
	adjusted.Quantity = proposal.Quantity
	return &domain.RiskDecision{
		Approved: proposal.Approved,
		Adjusted: adjusted,
		Reason:   proposal.Reason,
	}
}

func (m *Manager) evaluateRules(strategy domain.Strategy, capital float64) domain.RiskDecision {
	switch strategy.Action {
	case domain.ActionHold:
		return domain.RiskDecision{
			Approved: true,
			Adjusted: strategy,
			Reason:   "Hold position is safe",
		}

	case domain.ActionBuy, domain.ActionSell:
		maxQuantity := int(math.Floor(capital * m.exposureLimit / m.assumedSharePrice))
		if strategy.Quantity > maxQuantity {
			adjusted := strategy
			adjusted.Quantity = maxQuantity
			return domain.RiskDecision{
				Approved: true,
				Adjusted: adjusted,
				Reason: fmt.Sprintf("Quantity adjusted from %d to %d for risk management",
					strategy.Quantity, maxQuantity),
			}
		}
		return domain.RiskDecision{
			Approved: true,
			Adjusted: strategy,
			Reason:   "Risk within acceptable limits",
		}

	default:
		return domain.RiskDecision{
			Approved: false,
			Adjusted: strategy,
			Reason:   "Unknown action type",
		}
	}
}

// Summarize renders the compact evaluation context handed to the advisor.
func Summarize(strategy domain.Strategy, portfolio domain.Portfolio, capital float64) string {
	return fmt.Sprintf("Action: %s, Quantity: %d. Portfolio size: %d positions. Available capital: $%.0f",
		strategy.Action, strategy.Quantity, len(portfolio), capital)
}
