package interview

import (
	"strings"
	"sync"

	"ai-interview-service/internal/models"
)

// Display labels for transcript roles.
const (
	labelCandidate   = "Candidate"
	labelInterviewer = "Interviewer"
)

// Accumulator collects transcript segments in arrival order, deduplicating
// by segment id. A segment that arrives again with the same id replaces the
// text of the original in place, which handles interim results that firm up
// over the course of an utterance.
type Accumulator struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*models.TranscriptSegment
}

// NewAccumulator creates an empty transcript accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{byID: make(map[string]*models.TranscriptSegment)}
}

// Add records a segment. Segments with an id already seen update the stored
// text without changing its position in the transcript.
func (a *Accumulator) Add(seg models.TranscriptSegment) {
	if seg.ID == "" || seg.Text == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.byID[seg.ID]; ok {
		existing.Text = seg.Text
		return
	}
	copied := seg
	a.byID[seg.ID] = &copied
	a.order = append(a.order, seg.ID)
}

// Len returns the number of distinct segments recorded.
func (a *Accumulator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.order)
}

// Segments returns the recorded segments in arrival order.
func (a *Accumulator) Segments() []models.TranscriptSegment {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]models.TranscriptSegment, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.byID[id])
	}
	return out
}

// Render flattens the transcript into the line format the scoring endpoint
// expects, one "<label>: <text>" line per segment.
func (a *Accumulator) Render() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	lines := make([]string, 0, len(a.order))
	for _, id := range a.order {
		seg := a.byID[id]
		label := labelInterviewer
		if seg.Role == models.RoleUser {
			label = labelCandidate
		}
		lines = append(lines, label+": "+seg.Text)
	}
	return strings.Join(lines, "\n")
}

// Reset discards all recorded segments.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.order = nil
	a.byID = make(map[string]*models.TranscriptSegment)
}
