package summary

import (
	"fmt"
	"strings"

	"github.com/taskwire/taskwire/internal/domain"
)

// highlightCount is how many leading titles the local summary names.
const highlightCount = 5

// Local computes the deterministic, network-independent summary used as the
// chain's fallback value. An empty list yields EmptyListSummary, a single
// task "1 task: <title>.", and anything larger "<N> tasks. Highlights:
// <first 5 titles>.".
func Local(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return EmptyListSummary
	}

	titles := make([]string, 0, highlightCount)
	for _, task := range tasks {
		if len(titles) == highlightCount {
			break
		}
		titles = append(titles, task.Title)
	}
	preview := strings.Join(titles, ", ")

	if len(tasks) == 1 {
		return fmt.Sprintf("1 task: %s.", preview)
	}
	return fmt.Sprintf("%d tasks. Highlights: %s.", len(tasks), preview)
}

// TaskListing renders the newline-joined "- <title>: <description>" listing
// sent to external providers as the user message.
func TaskListing(tasks []domain.Task) string {
	lines := make([]string, len(tasks))
	for i, task := range tasks {
		lines[i] = fmt.Sprintf("- %s: %s", task.Title, task.Description)
	}
	return strings.Join(lines, "\n")
}
