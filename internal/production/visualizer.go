package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/loggerstate"
	"github.com/comalice/loggerstate/internal/core"
)

// DefaultVisualizer renders device snapshots.
type DefaultVisualizer struct{}

var statusColors = map[loggerstate.Status]string{
	loggerstate.Initialize: "khaki",
	loggerstate.Working:    "lightgreen",
	loggerstate.Error:      "tomato",
}

// ExportDOT generates Graphviz DOT source for the subsystem tree. Edges point
// from child to parent, the direction statuses are mirrored in.
func (v *DefaultVisualizer) ExportDOT(snapshot core.Snapshot) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", snapshot.Device)
	buf.WriteString(`  rankdir=BT;
  node [shape=box, fontsize=10, style="rounded,filled"];
  edge [fontsize=9];
`)

	for _, sub := range snapshot.Subsystems {
		color, ok := statusColors[sub.Status]
		if !ok {
			color = "white"
		}
		fmt.Fprintf(&buf, "  %q [label=\"%s\\n%s\" fillcolor=%s];\n", sub.Name, sub.Name, sub.Status, color)
	}
	for _, sub := range snapshot.Subsystems {
		if sub.Parent == "" {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", sub.Name, sub.Parent)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the snapshot to JSON.
func (v *DefaultVisualizer) ExportJSON(snapshot core.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snapshot, "", "  ")
}
