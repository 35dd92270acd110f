package entity

import (
	"fmt"
	"slices"
	"strings"
)

// DocType is the kind of legal document being summarized.
type DocType string

const (
	DocTypeJudicialOpinion DocType = "judicial_opinion"
	DocTypeContract        DocType = "contract"
	DocTypeStatute         DocType = "statute"
)

// Jurisdiction is the legal system the document belongs to.
type Jurisdiction string

const (
	JurisdictionUS Jurisdiction = "us"
	JurisdictionUK Jurisdiction = "uk"
	JurisdictionEU Jurisdiction = "eu"
)

// Goal steers the summary toward a reader's intent.
type Goal string

const (
	GoalSummarizeForPlaintiff Goal = "summarize_for_plaintiff"
	GoalSummarizeForDefendant Goal = "summarize_for_defendant"
	GoalIdentifyRisks         Goal = "identify_risks"
	GoalGeneralBriefing       Goal = "general_briefing"
)

// DocTypes lists every accepted document type in display order.
var DocTypes = []DocType{DocTypeJudicialOpinion, DocTypeContract, DocTypeStatute}

// Jurisdictions lists every accepted jurisdiction in display order.
var Jurisdictions = []Jurisdiction{JurisdictionUS, JurisdictionUK, JurisdictionEU}

// Goals lists every accepted summarization goal in display order.
var Goals = []Goal{
	GoalSummarizeForPlaintiff,
	GoalSummarizeForDefendant,
	GoalIdentifyRisks,
	GoalGeneralBriefing,
}

// Context is the descriptor that steers generation for one summarization
// request. The same value is used for every chunk and every pass.
type Context struct {
	DocType      DocType      `json:"doc_type"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
	Goal         Goal         `json:"goal"`
}

// DefaultContext is used when a caller does not choose one.
func DefaultContext() Context {
	return Context{
		DocType:      DocTypeJudicialOpinion,
		Jurisdiction: JurisdictionUS,
		Goal:         GoalGeneralBriefing,
	}
}

// Prefix renders the control prefix prepended to every model input.
func (c Context) Prefix() string {
	return fmt.Sprintf("<jurisdiction:%s> <doc_type:%s> <goal:%s>", c.Jurisdiction, c.DocType, c.Goal)
}

// Validate checks that every field holds a known value.
func (c Context) Validate() error {
	if !slices.Contains(DocTypes, c.DocType) {
		return &ValidationError{Field: "doc_type", Message: "must be one of " + join(DocTypes)}
	}
	if !slices.Contains(Jurisdictions, c.Jurisdiction) {
		return &ValidationError{Field: "jurisdiction", Message: "must be one of " + join(Jurisdictions)}
	}
	if !slices.Contains(Goals, c.Goal) {
		return &ValidationError{Field: "goal", Message: "must be one of " + join(Goals)}
	}
	return nil
}

// ParseContext builds a Context from raw strings, filling blanks from
// DefaultContext before validating.
func ParseContext(docType, jurisdiction, goal string) (Context, error) {
	c := DefaultContext()
	if v := strings.TrimSpace(docType); v != "" {
		c.DocType = DocType(strings.ToLower(v))
	}
	if v := strings.TrimSpace(jurisdiction); v != "" {
		c.Jurisdiction = Jurisdiction(strings.ToLower(v))
	}
	if v := strings.TrimSpace(goal); v != "" {
		c.Goal = Goal(strings.ToLower(v))
	}
	if err := c.Validate(); err != nil {
		return Context{}, err
	}
	return c, nil
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
