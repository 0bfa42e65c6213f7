package exam

import (
	"reflect"
	"testing"

	"studysphere/internal/models"
)

func questionSet(correct ...int) []models.ExamQuestion {
	questions := make([]models.ExamQuestion, len(correct))
	for i, c := range correct {
		questions[i] = models.ExamQuestion{
			Position:           i,
			Question:           "Q",
			Options:            []string{"A", "B", "C", "D"},
			CorrectOptionIndex: c,
		}
	}
	return questions
}

func TestCalculateExamResults_EmptyQuestionSet(t *testing.T) {
	result := CalculateExamResults(nil, nil)
	if result.TotalQuestions != 0 || result.CorrectAnswers != 0 || result.Score != 0 {
		t.Errorf("got %+v, want zero result", result)
	}
	if len(result.Results) != 0 {
		t.Errorf("expected empty per-question results, got %d", len(result.Results))
	}
}

func TestCalculateExamResults_Scoring(t *testing.T) {
	questions := questionSet(0, 1, 2, 3, 0, 1, 2, 3, 0, 1)
	answers := []SubmittedAnswer{
		{QuestionIndex: 0, SelectedOption: 0}, // correct
		{QuestionIndex: 1, SelectedOption: 1}, // correct
		{QuestionIndex: 2, SelectedOption: 0}, // wrong
		{QuestionIndex: 3, SelectedOption: 3}, // correct
		{QuestionIndex: 4, SelectedOption: 0}, // correct
	}

	result := CalculateExamResults(questions, answers)
	if result.TotalQuestions != 10 {
		t.Errorf("TotalQuestions = %d, want 10", result.TotalQuestions)
	}
	if result.CorrectAnswers != 4 {
		t.Errorf("CorrectAnswers = %d, want 4", result.CorrectAnswers)
	}
	if result.Score != 40.0 {
		t.Errorf("Score = %v, want 40", result.Score)
	}
}

func TestCalculateExamResults_UnansweredCountsWrong(t *testing.T) {
	questions := questionSet(0, 1, 2)
	answers := []SubmittedAnswer{{QuestionIndex: 1, SelectedOption: 1}}

	result := CalculateExamResults(questions, answers)
	if result.CorrectAnswers != 1 {
		t.Errorf("CorrectAnswers = %d, want 1", result.CorrectAnswers)
	}
	if got := result.Results[0].SelectedOption; got != -1 {
		t.Errorf("unanswered SelectedOption = %d, want -1", got)
	}
	if result.Results[0].IsCorrect {
		t.Error("unanswered question must not count as correct")
	}
}

func TestCalculateExamResults_AnswerOrderIrrelevant(t *testing.T) {
	questions := questionSet(2, 0, 1)
	ordered := []SubmittedAnswer{
		{QuestionIndex: 0, SelectedOption: 2},
		{QuestionIndex: 1, SelectedOption: 0},
		{QuestionIndex: 2, SelectedOption: 1},
	}
	shuffled := []SubmittedAnswer{
		{QuestionIndex: 2, SelectedOption: 1},
		{QuestionIndex: 0, SelectedOption: 2},
		{QuestionIndex: 1, SelectedOption: 0},
	}

	a := CalculateExamResults(questions, ordered)
	b := CalculateExamResults(questions, shuffled)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("order-dependent scoring: %+v vs %+v", a, b)
	}
	if a.Score != 100.0 {
		t.Errorf("Score = %v, want 100", a.Score)
	}
}

func TestCalculateExamResults_RoundsToTwoDecimals(t *testing.T) {
	questions := questionSet(0, 0, 0)
	answers := []SubmittedAnswer{{QuestionIndex: 0, SelectedOption: 0}}

	result := CalculateExamResults(questions, answers)
	if result.Score != 33.33 {
		t.Errorf("Score = %v, want 33.33", result.Score)
	}
}

func TestCalculateExamResults_Deterministic(t *testing.T) {
	questions := questionSet(1, 3, 0, 2)
	answers := []SubmittedAnswer{
		{QuestionIndex: 0, SelectedOption: 1},
		{QuestionIndex: 3, SelectedOption: 0},
	}

	first := CalculateExamResults(questions, answers)
	second := CalculateExamResults(questions, answers)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("replays differ: %+v vs %+v", first, second)
	}
}
