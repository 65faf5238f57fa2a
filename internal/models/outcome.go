package models

// Status is the terminal disposition of a contact within one run.
type Status string

const (
	StatusSent        Status = "sent"
	StatusUnreachable Status = "unreachable"
	StatusFailed      Status = "failed"
)

// Outcome records what happened to a single contact.
type Outcome struct {
	Contact Contact `json:"contact"`
	Status  Status  `json:"status"`
	// Err is set only for StatusFailed.
	Err error `json:"-"`
}

// OutcomeEvent is the wire form of an Outcome published to NATS.
type OutcomeEvent struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Event converts the outcome into its published form.
func (o Outcome) Event() OutcomeEvent {
	ev := OutcomeEvent{
		Name:    o.Contact.Name,
		Email:   o.Contact.Email,
		Company: o.Contact.Company,
		Status:  o.Status,
	}
	if o.Err != nil {
		ev.Error = o.Err.Error()
	}
	return ev
}
