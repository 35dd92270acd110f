package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "counsel_01", false},
		{"with dot and dash", "j.doe-law", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 51), true},
		{"uppercase not normalized", "Alice", true},
		{"space", "a b c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"clerk@court.gov", false},
		{"first.last@firm.co.uk", false},
		{"", true},
		{"no-at-sign.com", true},
		{"a@b", true},
		{"a b@c.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "alice@example.com", NormalizeEmail("Alice@Example.COM "))
}

func TestExcerpt(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, Excerpt(short))

	long := strings.Repeat("é", ExcerptLimit+5)
	got := Excerpt(long)
	assert.Equal(t, ExcerptLimit, len([]rune(got)))
}

func TestPasswordReset_Expired(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &PasswordReset{CreatedAt: created}

	assert.False(t, p.Expired(created.Add(30*time.Minute), time.Hour))
	assert.False(t, p.Expired(created.Add(time.Hour), time.Hour))
	assert.True(t, p.Expired(created.Add(time.Hour+time.Second), time.Hour))
}

func TestEvaluationRating_Validate(t *testing.T) {
	valid := func() EvaluationRating {
		return EvaluationRating{
			SummaryID:     1,
			EvaluatorUser: "expert",
			TargetGoal:    GoalIdentifyRisks,
			Accuracy:      5,
			Relevance:     4,
			Coherence:     3,
			Utility:       1,
		}
	}

	tests := []struct {
		name      string
		mutate    func(r *EvaluationRating)
		wantField string
	}{
		{name: "valid", mutate: func(r *EvaluationRating) {}},
		{name: "accuracy zero", mutate: func(r *EvaluationRating) { r.Accuracy = 0 }, wantField: "rating_accuracy"},
		{name: "relevance six", mutate: func(r *EvaluationRating) { r.Relevance = 6 }, wantField: "rating_relevance"},
		{name: "coherence negative", mutate: func(r *EvaluationRating) { r.Coherence = -1 }, wantField: "rating_coherence"},
		{name: "utility zero", mutate: func(r *EvaluationRating) { r.Utility = 0 }, wantField: "rating_utility"},
		{name: "no evaluator", mutate: func(r *EvaluationRating) { r.EvaluatorUser = "" }, wantField: "evaluator_user"},
		{name: "long comment", mutate: func(r *EvaluationRating) { r.Comments = strings.Repeat("c", 2001) }, wantField: "comments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			if assert.ErrorAs(t, err, &ve) {
				assert.Equal(t, tt.wantField, ve.Field)
			}
		})
	}
}
