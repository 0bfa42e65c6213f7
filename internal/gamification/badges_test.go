package gamification

import (
	"reflect"
	"testing"
)

func TestEligibleBadges_EmptySnapshot(t *testing.T) {
	got := EligibleBadges(Snapshot{})
	if len(got) != 0 {
		t.Errorf("expected no badges for empty snapshot, got %v", got)
	}
}

func TestEligibleBadges_SkipsEarned(t *testing.T) {
	s := Snapshot{
		TotalLessons: 1,
		Earned:       map[string]bool{BadgeFirstLesson: true},
	}
	got := EligibleBadges(s)
	if len(got) != 0 {
		t.Errorf("expected earned badge to be skipped, got %v", got)
	}
}

func TestEligibleBadges_MultipleAtOnce(t *testing.T) {
	s := Snapshot{
		Level:        10,
		Streak:       7,
		TotalLessons: 1,
	}
	want := []string{BadgeXPLegend, BadgeConsistentStudent, BadgeFirstLesson}
	got := EligibleBadges(s)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EligibleBadges = %v, want %v", got, want)
	}
}

func TestEligibleBadges_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		s       Snapshot
		badge   string
		satisfy bool
	}{
		{"level 9 below legend", Snapshot{Level: 9}, BadgeXPLegend, false},
		{"level 10 earns legend", Snapshot{Level: 10}, BadgeXPLegend, true},
		{"6 day streak short", Snapshot{Streak: 6}, BadgeConsistentStudent, false},
		{"7 day streak consistent", Snapshot{Streak: 7}, BadgeConsistentStudent, true},
		{"30 day streak dedicated", Snapshot{Streak: 30}, BadgeDedicatedLearner, true},
		{"19 lessons short of creator", Snapshot{TotalLessons: 19}, BadgeLessonCreator, false},
		{"20 lessons earns creator", Snapshot{TotalLessons: 20}, BadgeLessonCreator, true},
		{"4 perfect quizzes short", Snapshot{PerfectQuizzes: 4}, BadgeQuizMaster, false},
		{"5 perfect quizzes earns master", Snapshot{PerfectQuizzes: 5}, BadgeQuizMaster, true},
		{"89.9 exam score short", Snapshot{BestExamScore: 89.9}, BadgeExamChampion, false},
		{"90 exam score earns champion", Snapshot{BestExamScore: 90}, BadgeExamChampion, true},
		{"10 math lessons earns guru", Snapshot{LessonsBySubject: map[string]int{"Mathematics": 10}}, BadgeMathGuru, true},
		{"10 english lessons earns expert", Snapshot{LessonsBySubject: map[string]int{"English": 10}}, BadgeEnglishExpert, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EligibleBadges(tt.s)
			if contains(got, tt.badge) != tt.satisfy {
				t.Errorf("badge %s satisfied = %v, want %v (got %v)", tt.badge, !tt.satisfy, tt.satisfy, got)
			}
		})
	}
}

func TestEligibleBadges_SciencePerSubject(t *testing.T) {
	tests := []struct {
		name    string
		lessons map[string]int
		satisfy bool
	}{
		{"10 chemistry lessons", map[string]int{"Chemistry": 10}, true},
		{"biology past threshold", map[string]int{"Physics": 2, "Biology": 12}, true},
		{"combined total does not count", map[string]int{"Physics": 4, "Chemistry": 3, "Biology": 3}, false},
		{"non-science subject ignored", map[string]int{"History": 20}, false},
		{"9 physics lessons short", map[string]int{"Physics": 9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EligibleBadges(Snapshot{LessonsBySubject: tt.lessons})
			if contains(got, BadgeScienceMaster) != tt.satisfy {
				t.Errorf("badge %s satisfied = %v, want %v (got %v)", BadgeScienceMaster, !tt.satisfy, tt.satisfy, got)
			}
		})
	}
}

func TestBadgeByID(t *testing.T) {
	badge, ok := BadgeByID(BadgeQuizMaster)
	if !ok {
		t.Fatal("expected QUIZ_MASTER in catalog")
	}
	if badge.Name != "Quiz Master" {
		t.Errorf("Name = %q, want %q", badge.Name, "Quiz Master")
	}

	if _, ok := BadgeByID("NOT_A_BADGE"); ok {
		t.Error("expected unknown id to miss the catalog")
	}
}

func TestCatalogMatchesRules(t *testing.T) {
	if len(Catalog) != len(badgeRules) {
		t.Fatalf("catalog has %d badges, rules cover %d", len(Catalog), len(badgeRules))
	}
	for _, rule := range badgeRules {
		if _, ok := BadgeByID(rule.BadgeID); !ok {
			t.Errorf("rule for %s has no catalog entry", rule.BadgeID)
		}
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
