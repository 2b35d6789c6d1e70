// ABOUTME: Data models for proposal entities
// ABOUTME: Defines User, Prospect, Proposal, Analysis, Phase, and Meeting structs
package models

import (
	"fmt"
	"time"
)

type User struct {
	ID                   string `json:"id"`
	Email                string `json:"email"`
	Name                 string `json:"full_name"`
	FirefliesAPIKey      string `json:"fireflies_api_key,omitempty"`
	DefaultSignatureName string `json:"default_signature_name,omitempty"`
}

type Prospect struct {
	ID           string `json:"id"`
	CompanyName  string `json:"company_name"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactRole  string `json:"contact_role,omitempty"`
}

type Proposal struct {
	ID                 string         `json:"id"`
	ProspectID         string         `json:"prospect_id"`
	Prospect           *Prospect      `json:"prospect,omitempty"`
	CreatedBy          string         `json:"created_by,omitempty"`
	Status             ProposalStatus `json:"status"`
	Priority           Priority       `json:"priority"`
	DiscoveryNotes     string         `json:"discovery_notes"`
	AdditionalContext  string         `json:"additional_context,omitempty"`
	Analysis           Analysis       `json:"ai_analysis"`
	DraftEmailSubject  string         `json:"draft_email_subject"`
	DraftEmailBody     string         `json:"draft_email_body"`
	TotalEstimateLow   float64        `json:"total_estimate_low"`
	TotalEstimateHigh  float64        `json:"total_estimate_high"`
	OngoingMonthlyLow  *float64       `json:"ongoing_monthly_low,omitempty"`
	OngoingMonthlyHigh *float64       `json:"ongoing_monthly_high,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	SentAt             *time.Time     `json:"sent_at,omitempty"`
}

// CompanyName returns the prospect's company or a placeholder when the join is missing.
func (p *Proposal) CompanyName() string {
	if p.Prospect == nil || p.Prospect.CompanyName == "" {
		return "Unknown Company"
	}
	return p.Prospect.CompanyName
}

// Validate checks the range invariants of the estimate and of every phase.
func (p *Proposal) Validate() error {
	if p.TotalEstimateLow > p.TotalEstimateHigh {
		return fmt.Errorf("total estimate low %v exceeds high %v", p.TotalEstimateLow, p.TotalEstimateHigh)
	}
	if p.OngoingMonthlyLow != nil && p.OngoingMonthlyHigh != nil && *p.OngoingMonthlyLow > *p.OngoingMonthlyHigh {
		return fmt.Errorf("ongoing monthly low %v exceeds high %v", *p.OngoingMonthlyLow, *p.OngoingMonthlyHigh)
	}
	for _, phase := range p.Analysis.RecommendedApproach.Phases {
		if err := phase.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type Analysis struct {
	CompanyContext      CompanyContext      `json:"company_context"`
	StakeholderMap      StakeholderMap      `json:"stakeholder_map"`
	PainSignals         []PainSignal        `json:"pain_signals"`
	BudgetSignals       BudgetSignals       `json:"budget_signals"`
	TimelineSignals     TimelineSignals     `json:"timeline_signals"`
	RecommendedApproach RecommendedApproach `json:"recommended_approach"`
	Cautions            []string            `json:"cautions"`
}

type CompanyContext struct {
	Industry             string        `json:"industry"`
	EstimatedSize        string        `json:"estimated_size"`
	CurrentMaturityLevel MaturityLevel `json:"current_maturity_level"`
	MaturityRationale    string        `json:"maturity_rationale"`
	TechnicalEnvironment string        `json:"technical_environment"`
	KeySystemsMentioned  []string      `json:"key_systems_mentioned"`
}

type Stakeholder struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Stance string `json:"stance"`
	Notes  string `json:"notes,omitempty"`
}

type StakeholderMap struct {
	Champion       Stakeholder   `json:"champion"`
	DecisionMakers []Stakeholder `json:"decision_makers"`
	PoliticalNotes string        `json:"political_notes,omitempty"`
}

type PainSignal struct {
	Signal           string   `json:"signal"`
	Category         string   `json:"category"`
	QuantifiedImpact string   `json:"quantified_impact,omitempty"`
	MapsToOfferings  []string `json:"maps_to_offerings"`
}

type BudgetSignals struct {
	LowFrictionThreshold      string `json:"low_friction_threshold,omitempty"`
	RequiresBusinessCaseAbove string `json:"requires_business_case_above,omitempty"`
}

type TimelineSignals struct {
	UrgencyScore       int      `json:"urgency_score"`
	DeadlinesMentioned []string `json:"deadlines_mentioned"`
}

type RecommendedApproach struct {
	Summary string  `json:"summary"`
	Phases  []Phase `json:"phases"`
}

type Phase struct {
	PhaseNumber    int             `json:"phase_number"`
	PhaseLabel     string          `json:"phase_label"`
	Offerings      []PhaseOffering `json:"offerings"`
	PhaseTotalLow  float64         `json:"phase_total_low"`
	PhaseTotalHigh float64         `json:"phase_total_high"`
	PricingNote    string          `json:"pricing_note,omitempty"`
	// Recurring overrides the pricing-note heuristic when the service sets it.
	Recurring *bool `json:"recurring,omitempty"`
}

// Validate checks that the phase and each offering keep low <= high.
func (p Phase) Validate() error {
	if p.PhaseTotalLow > p.PhaseTotalHigh {
		return fmt.Errorf("phase %d total low %v exceeds high %v", p.PhaseNumber, p.PhaseTotalLow, p.PhaseTotalHigh)
	}
	for _, o := range p.Offerings {
		if o.PriceLow > o.PriceHigh {
			return fmt.Errorf("offering %s price low %v exceeds high %v", o.Code, o.PriceLow, o.PriceHigh)
		}
	}
	return nil
}

type PhaseOffering struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Rationale   string  `json:"rationale"`
	CustomScope string  `json:"custom_scope,omitempty"`
	PriceLow    float64 `json:"price_low"`
	PriceHigh   float64 `json:"price_high"`
	Timeline    string  `json:"timeline"`
}

type Meeting struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Duration     float64  `json:"duration"`
	Participants []string `json:"participants"`
}
