package exam

import (
	"math"

	"studysphere/internal/models"
)

// SubmittedAnswer is one answer keyed by question index. Submissions may be
// sparse and arrive in any order.
type SubmittedAnswer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"`
}

// QuestionResult is the per-question detail of a scored attempt.
type QuestionResult struct {
	QuestionIndex  int    `json:"questionIndex"`
	Question       string `json:"question"`
	IsCorrect      bool   `json:"isCorrect"`
	SelectedOption int    `json:"selectedOption"`
	CorrectOption  int    `json:"correctOption"`
	Explanation    string `json:"explanation"`
}

// Result is a full scored report.
type Result struct {
	TotalQuestions int              `json:"totalQuestions"`
	CorrectAnswers int              `json:"correctAnswers"`
	Score          float64          `json:"score"`
	Results        []QuestionResult `json:"results"`
}

// CalculateExamResults scores a question set against a sparse answer set.
// Questions with no submitted answer count as selectedOption -1, always
// incorrect. Score is correct/total*100 rounded to two decimals; an empty
// question set scores 0. Pure function, deterministic and replayable.
func CalculateExamResults(questions []models.ExamQuestion, answers []SubmittedAnswer) Result {
	selected := make(map[int]int, len(answers))
	for _, a := range answers {
		selected[a.QuestionIndex] = a.SelectedOption
	}

	results := make([]QuestionResult, 0, len(questions))
	correct := 0
	for i, q := range questions {
		option, answered := selected[i]
		if !answered {
			option = -1
		}
		isCorrect := option == q.CorrectOptionIndex
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionIndex:  i,
			Question:       q.Question,
			IsCorrect:      isCorrect,
			SelectedOption: option,
			CorrectOption:  q.CorrectOptionIndex,
			Explanation:    q.Explanation,
		})
	}

	score := 0.0
	if len(questions) > 0 {
		score = round2(float64(correct) / float64(len(questions)) * 100)
	}

	return Result{
		TotalQuestions: len(questions),
		CorrectAnswers: correct,
		Score:          score,
		Results:        results,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
