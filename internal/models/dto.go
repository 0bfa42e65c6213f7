package models

// ExamQuestionDTO is what a student sees while taking an exam: options
// without the correct index. The full question (with answer and explanation)
// only comes back inside a scored results report.
type ExamQuestionDTO struct {
	ID           uint     `json:"id"`
	Position     int      `json:"position"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	TopicCovered string   `json:"topic_covered"`
	Difficulty   string   `json:"difficulty"`
}

func (q ExamQuestion) ToDTO() ExamQuestionDTO {
	return ExamQuestionDTO{
		ID:           q.ID,
		Position:     q.Position,
		Question:     q.Question,
		Options:      q.Options,
		TopicCovered: q.TopicCovered,
		Difficulty:   q.Difficulty,
	}
}

// PracticeQuestionDTO strips the answer key from a lesson's practice quiz.
type PracticeQuestionDTO struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (q PracticeQuestion) ToDTO() PracticeQuestionDTO {
	return PracticeQuestionDTO{
		Question: q.Question,
		Options:  q.Options,
	}
}

// LeaderboardEntry is one row of the global XP leaderboard.
type LeaderboardEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	XPPoints int    `json:"xp_points"`
	Level    int    `json:"level"`
}
