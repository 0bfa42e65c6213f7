package exam

import (
	"fmt"
	"strings"

	"studysphere/internal/models"
)

// AggregatedContent is the merged study material handed to the question
// generator.
type AggregatedContent struct {
	Topics        []string `json:"topics"`
	FullContent   string   `json:"fullContent"`
	SummaryPoints []string `json:"summaryPoints"`
	LessonCount   int      `json:"lessonCount"`
}

// AggregateLessonContent merges a lesson sequence into one deduplicated
// bundle. Topic and topic title both feed the same insertion-ordered topic
// list; summary points deduplicate across lessons; main content is
// concatenated under per-topic headers joined by blank lines, in input order.
// Deduplication is exact string equality. Zero lessons yield an empty bundle.
func AggregateLessonContent(lessons []models.Lesson) AggregatedContent {
	topics := make([]string, 0, len(lessons))
	seenTopics := make(map[string]bool)
	summaries := []string{}
	seenSummaries := make(map[string]bool)
	sections := make([]string, 0, len(lessons))

	for _, lesson := range lessons {
		if lesson.Topic != "" && !seenTopics[lesson.Topic] {
			seenTopics[lesson.Topic] = true
			topics = append(topics, lesson.Topic)
		}
		if lesson.TopicTitle != "" && !seenTopics[lesson.TopicTitle] {
			seenTopics[lesson.TopicTitle] = true
			topics = append(topics, lesson.TopicTitle)
		}

		for _, point := range lesson.SummaryPoints {
			if point == "" || seenSummaries[point] {
				continue
			}
			seenSummaries[point] = true
			summaries = append(summaries, point)
		}

		sections = append(sections, fmt.Sprintf("## %s\n\n%s", lessonHeading(lesson), lesson.MainContent))
	}

	return AggregatedContent{
		Topics:        topics,
		FullContent:   strings.Join(sections, "\n\n"),
		SummaryPoints: summaries,
		LessonCount:   len(lessons),
	}
}

func lessonHeading(lesson models.Lesson) string {
	if lesson.TopicTitle != "" {
		return lesson.TopicTitle
	}
	return lesson.Topic
}
