package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/notifier"
)

// renderBody builds the HTML email body for a task outcome.
func renderBody(note notifier.Notification) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(note.Title))
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(note.Description))
	fmt.Fprintf(&b, "<p><strong>Status:</strong> %s</p>", html.EscapeString(string(note.Status)))

	if note.Status == task.StatusCompleted && len(note.Outcome) > 0 {
		if pretty := prettyJSON(note.Outcome); pretty != "" {
			fmt.Fprintf(&b, "<h3>Result</h3><pre>%s</pre>", html.EscapeString(pretty))
		}
	}

	return b.String()
}

// prettyJSON re-indents raw JSON for display. Invalid JSON yields "".
func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return ""
	}
	return buf.String()
}
