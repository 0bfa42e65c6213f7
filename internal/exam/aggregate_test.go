package exam

import (
	"reflect"
	"strings"
	"testing"

	"studysphere/internal/models"
)

func TestAggregateLessonContent_Empty(t *testing.T) {
	got := AggregateLessonContent(nil)
	if got.LessonCount != 0 || got.FullContent != "" {
		t.Errorf("got %+v, want empty bundle", got)
	}
	if len(got.Topics) != 0 || len(got.SummaryPoints) != 0 {
		t.Errorf("expected no topics or summaries, got %+v", got)
	}
}

func TestAggregateLessonContent_TopicDedup(t *testing.T) {
	lessons := []models.Lesson{
		{Topic: "Algebra", TopicTitle: "Linear Equations"},
		{Topic: "Algebra", TopicTitle: "Quadratic Equations"},
		{Topic: "Geometry", TopicTitle: "Algebra"}, // title collides with an earlier topic
		{Topic: "", TopicTitle: ""},                // blanks never become topics
	}

	got := AggregateLessonContent(lessons)
	want := []string{"Algebra", "Linear Equations", "Quadratic Equations", "Geometry"}
	if !reflect.DeepEqual(got.Topics, want) {
		t.Errorf("Topics = %v, want %v", got.Topics, want)
	}
}

func TestAggregateLessonContent_SummaryDedup(t *testing.T) {
	lessons := []models.Lesson{
		{Topic: "A", SummaryPoints: []string{"point one", "point two"}},
		{Topic: "B", SummaryPoints: []string{"point two", "point three", ""}},
	}

	got := AggregateLessonContent(lessons)
	want := []string{"point one", "point two", "point three"}
	if !reflect.DeepEqual(got.SummaryPoints, want) {
		t.Errorf("SummaryPoints = %v, want %v", got.SummaryPoints, want)
	}
}

func TestAggregateLessonContent_ContentSections(t *testing.T) {
	lessons := []models.Lesson{
		{Topic: "Fractions", MainContent: "Fractions represent parts of a whole."},
		{Topic: "Decimals", TopicTitle: "Decimal Numbers", MainContent: "Decimals use base ten."},
	}

	got := AggregateLessonContent(lessons)
	want := "## Fractions\n\nFractions represent parts of a whole.\n\n## Decimal Numbers\n\nDecimals use base ten."
	if got.FullContent != want {
		t.Errorf("FullContent = %q, want %q", got.FullContent, want)
	}
	if got.LessonCount != 2 {
		t.Errorf("LessonCount = %d, want 2", got.LessonCount)
	}
}

func TestAggregateLessonContent_TitleFallsBackToTopic(t *testing.T) {
	lessons := []models.Lesson{{Topic: "Photosynthesis", MainContent: "Plants convert light."}}

	got := AggregateLessonContent(lessons)
	if !strings.HasPrefix(got.FullContent, "## Photosynthesis\n\n") {
		t.Errorf("FullContent = %q, want heading from Topic", got.FullContent)
	}
}
