package worker

import (
	"fmt"
	"io"

	"outreach-mailer/internal/models"
)

// Report partitions a run's outcomes. Each slice keeps input order.
type Report struct {
	Sent        []models.Outcome
	Unreachable []models.Outcome
	Failed      []models.Outcome
}

func (r *Report) add(o models.Outcome) {
	switch o.Status {
	case models.StatusSent:
		r.Sent = append(r.Sent, o)
	case models.StatusUnreachable:
		r.Unreachable = append(r.Unreachable, o)
	default:
		r.Failed = append(r.Failed, o)
	}
}

// Total is the number of contacts processed.
func (r *Report) Total() int {
	return len(r.Sent) + len(r.Unreachable) + len(r.Failed)
}

// Print writes the end-of-run summary. The failed section only appears
// when something failed.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "\n--- Summary ---")

	fmt.Fprintln(w, "\n✅ Emails sent to:")
	for _, o := range r.Sent {
		fmt.Fprintf(w, "  - %s (%s) at %s\n", o.Contact.Name, o.Contact.Email, o.Contact.Company)
	}

	fmt.Fprintln(w, "\n🔗 No email found, reach out via LinkedIn:")
	for _, o := range r.Unreachable {
		fmt.Fprintf(w, "  - %s at %s\n", o.Contact.Name, o.Contact.Company)
	}

	if len(r.Failed) == 0 {
		return
	}
	fmt.Fprintln(w, "\n❌ Failed to send:")
	for _, o := range r.Failed {
		fmt.Fprintf(w, "  - %s (%s) at %s: %v\n", o.Contact.Name, o.Contact.Email, o.Contact.Company, o.Err)
	}
}
