package ai

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

// AnalysisResult is the structured analysis produced for a question paper.
// All seven fields are required in the model output.
type AnalysisResult struct {
	Topics                     []string           `json:"topics"`
	Difficulty                 string             `json:"difficulty"`
	TimeEstimate               float64            `json:"timeEstimate"`
	KeyConceptsToReview        []string           `json:"keyConceptsToReview"`
	SimilarTopicsFromPastYears []string           `json:"similarTopicsFromPastYears"`
	QuestionTypeDistribution   map[string]float64 `json:"questionTypeDistribution"`
	RecommendedStrategies      []string           `json:"recommendedStrategies"`
}

// PlanDay is one day's assignment in a study plan. Duration is in hours.
type PlanDay struct {
	Day        int      `json:"day"`
	Date       string   `json:"date"`
	Topics     []string `json:"topics"`
	Duration   float64  `json:"duration"`
	Activities []string `json:"activities"`
	Resources  []string `json:"resources"`
}

// Milestone marks a dated checkpoint within a study plan.
type Milestone struct {
	Date      string `json:"date"`
	Milestone string `json:"milestone"`
}

// StudyPlan is a day-by-day preparation schedule for one exam.
type StudyPlan struct {
	StudyPlan       []PlanDay   `json:"studyPlan"`
	KeyMilestones   []Milestone `json:"keyMilestones"`
	OverallStrategy string      `json:"overallStrategy"`
}

func decodeWeak(input map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// DecodeAnalysisResult validates and converts a raw decoded object into an
// AnalysisResult. Every field must be present and non-empty. The
// distribution sum is not enforced here; DistributionSkew reports it so the
// caller can log when the model drifts from 100.
func DecodeAnalysisResult(input map[string]any) (*AnalysisResult, error) {
	required := []string{
		"topics", "difficulty", "timeEstimate", "keyConceptsToReview",
		"similarTopicsFromPastYears", "questionTypeDistribution", "recommendedStrategies",
	}
	for _, field := range required {
		if _, ok := input[field]; !ok {
			return nil, &ParseError{Reason: "missing field " + field}
		}
	}

	var result AnalysisResult
	if err := decodeWeak(input, &result); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	if len(result.Topics) == 0 {
		return nil, &ParseError{Reason: "empty topics"}
	}
	if result.Difficulty == "" {
		return nil, &ParseError{Reason: "empty difficulty"}
	}
	if result.TimeEstimate <= 0 {
		return nil, &ParseError{Reason: "invalid timeEstimate"}
	}
	if len(result.QuestionTypeDistribution) == 0 {
		return nil, &ParseError{Reason: "empty questionTypeDistribution"}
	}
	return &result, nil
}

// DistributionSkew returns how far the question-type percentages deviate
// from a total of 100.
func (r *AnalysisResult) DistributionSkew() float64 {
	var sum float64
	for _, v := range r.QuestionTypeDistribution {
		sum += v
	}
	return math.Abs(sum - 100)
}

// DecodeStudyPlan validates and converts a raw decoded object into a
// StudyPlan. All three fields must be present and non-empty.
func DecodeStudyPlan(input map[string]any) (*StudyPlan, error) {
	var plan StudyPlan
	if err := decodeWeak(input, &plan); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	if len(plan.StudyPlan) == 0 {
		return nil, &ParseError{Reason: "empty studyPlan"}
	}
	if len(plan.KeyMilestones) == 0 {
		return nil, &ParseError{Reason: "empty keyMilestones"}
	}
	if plan.OverallStrategy == "" {
		return nil, &ParseError{Reason: "empty overallStrategy"}
	}
	return &plan, nil
}
