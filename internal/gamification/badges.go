package gamification

// Badge ids. The catalog is fixed at compile time; users only ever accumulate
// references to these ids.
const (
	BadgeFirstLesson       = "FIRST_LESSON"
	BadgeLessonCreator     = "LESSON_CREATOR"
	BadgeConsistentStudent = "CONSISTENT_STUDENT"
	BadgeDedicatedLearner  = "DEDICATED_LEARNER"
	BadgeXPLegend          = "XP_LEGEND"
	BadgeQuizMaster        = "QUIZ_MASTER"
	BadgeMathGuru          = "MATH_GURU"
	BadgeScienceMaster     = "SCIENCE_MASTER"
	BadgeEnglishExpert     = "ENGLISH_EXPERT"
	BadgeExamChampion      = "EXAM_CHAMPION"
)

// Badge is a static catalog entry.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Catalog lists every badge in display order.
var Catalog = []Badge{
	{ID: BadgeFirstLesson, Name: "First Steps", Description: "Complete your first lesson", Icon: "🌱"},
	{ID: BadgeLessonCreator, Name: "Lesson Creator", Description: "Generate 20 lessons", Icon: "📚"},
	{ID: BadgeConsistentStudent, Name: "Consistent Student", Description: "Keep a 7-day study streak", Icon: "📅"},
	{ID: BadgeDedicatedLearner, Name: "Dedicated Learner", Description: "Keep a 30-day study streak", Icon: "🔥"},
	{ID: BadgeXPLegend, Name: "XP Legend", Description: "Reach level 10", Icon: "🏆"},
	{ID: BadgeQuizMaster, Name: "Quiz Master", Description: "Score 100% on 5 practice quizzes", Icon: "🎯"},
	{ID: BadgeMathGuru, Name: "Math Guru", Description: "Complete 10 Mathematics lessons", Icon: "📐"},
	{ID: BadgeScienceMaster, Name: "Science Master", Description: "Complete 10 lessons in a science subject", Icon: "🔬"},
	{ID: BadgeEnglishExpert, Name: "English Expert", Description: "Complete 10 English lessons", Icon: "✒️"},
	{ID: BadgeExamChampion, Name: "Exam Champion", Description: "Score 90% or higher on an exam", Icon: "🥇"},
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// scienceSubjects qualify for SCIENCE_MASTER.
var scienceSubjects = map[string]bool{
	"Physics":   true,
	"Chemistry": true,
	"Biology":   true,
}

// Snapshot is a freshly loaded view of everything the badge predicates read.
// It is always re-derived from storage; the Context hint bag never replaces
// it.
type Snapshot struct {
	Level            int
	Streak           int
	TotalLessons     int
	LessonsBySubject map[string]int
	PerfectQuizzes   int
	BestExamScore    float64
	Earned           map[string]bool
}

// Context is the sparse hint bag passed by callers. Fields are optional and
// advisory; predicates evaluate against the Snapshot.
type Context struct {
	Level            *int
	Streak           *int
	Subject          *string
	ExamScore        *float64
	LessonsGenerated *int
}

// badgeRule ties a badge id to its predicate over a snapshot.
type badgeRule struct {
	BadgeID   string
	Satisfied func(s Snapshot) bool
}

var badgeRules = []badgeRule{
	{BadgeXPLegend, func(s Snapshot) bool { return s.Level >= 10 }},
	{BadgeConsistentStudent, func(s Snapshot) bool { return s.Streak >= 7 }},
	{BadgeDedicatedLearner, func(s Snapshot) bool { return s.Streak >= 30 }},
	{BadgeFirstLesson, func(s Snapshot) bool { return s.TotalLessons >= 1 }},
	{BadgeLessonCreator, func(s Snapshot) bool { return s.TotalLessons >= 20 }},
	{BadgeQuizMaster, func(s Snapshot) bool { return s.PerfectQuizzes >= 5 }},
	{BadgeMathGuru, func(s Snapshot) bool { return s.LessonsBySubject["Mathematics"] >= 10 }},
	{BadgeScienceMaster, func(s Snapshot) bool {
		for subject, count := range s.LessonsBySubject {
			if scienceSubjects[subject] && count >= 10 {
				return true
			}
		}
		return false
	}},
	{BadgeEnglishExpert, func(s Snapshot) bool { return s.LessonsBySubject["English"] >= 10 }},
	{BadgeExamChampion, func(s Snapshot) bool { return s.BestExamScore >= 90 }},
}

// EligibleBadges evaluates every predicate against the snapshot and returns
// the ids that are satisfied but not yet earned, in rule order. Already
// earned badges are skipped, which is what makes repeated evaluation
// idempotent.
func EligibleBadges(s Snapshot) []string {
	var newly []string
	for _, rule := range badgeRules {
		if s.Earned[rule.BadgeID] {
			continue
		}
		if rule.Satisfied(s) {
			newly = append(newly, rule.BadgeID)
		}
	}
	return newly
}
