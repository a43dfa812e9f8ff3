package bridge

import (
	"time"

	"github.com/kylehosman/anytask/internal/models"
)

// SectionRef is the slice of section state the widget needs to render
// a header or a section switcher row.
type SectionRef struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Color models.Color `json:"color"`
	Icon  models.Icon  `json:"icon"`
}

// ProjectionSnapshot is the read-optimized view of the store published
// for the widget process. The widget renders straight from this and
// never opens the database for writes.
type ProjectionSnapshot struct {
	Section SectionRef `json:"section"`

	// Full ordered lists for the selected section, display order.
	TaskIDs   []string `json:"task_ids"`
	TaskTexts []string `json:"task_texts"`

	// Front slice for compact rendering, sized by the widget preference.
	VisibleTaskIDs   []string `json:"visible_task_ids"`
	VisibleTaskTexts []string `json:"visible_task_texts"`

	// Completed task IDs keyed by section ID, covering every section so
	// the widget can toggle without a round trip.
	CompletedIDsBySection map[string][]string `json:"completed_ids_by_section"`

	Sections              []SectionRef `json:"sections"`
	LastSelectedSectionID string       `json:"last_selected_section_id,omitempty"`
	PublishedAt           time.Time    `json:"published_at"`
}

// PendingToggle is a queued completion flip written by the widget when
// it cannot safely mutate the completed-set directly.
type PendingToggle struct {
	TaskID   string    `json:"task_id"`
	QueuedAt time.Time `json:"queued_at"`
}

// document is the whole shared file: the outbound snapshot plus the
// inbound intent fields the widget writes between app invocations.
type document struct {
	Snapshot ProjectionSnapshot `json:"snapshot"`

	DirtySectionID  string          `json:"dirty_section_id,omitempty"`
	SwitchSectionID string          `json:"switch_section_id,omitempty"`
	PendingToggles  []PendingToggle `json:"pending_toggles,omitempty"`
}

func (d *document) hasIntents() bool {
	return d.DirtySectionID != "" || d.SwitchSectionID != "" || len(d.PendingToggles) > 0
}
