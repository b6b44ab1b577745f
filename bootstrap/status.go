package bootstrap

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kbukum/speechkit/component"
)

// WriteStatus prints one line per component with its description and
// current health.
func (a *App[C]) WriteStatus(ctx context.Context, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tSTATUS\tDETAILS")
	for _, h := range a.Components.HealthAll(ctx) {
		details := h.Message
		if d, ok := a.Components.Get(h.Name).(component.Describable); ok {
			if desc := d.Describe(); desc.Details != "" {
				details = desc.Details
				if h.Message != "" {
					details += " (" + h.Message + ")"
				}
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Name, h.Status, details)
	}
	return tw.Flush()
}
