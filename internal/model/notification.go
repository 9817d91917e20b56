package model

// Notification is an outbound e-mail handed to the notifier.
type Notification struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
