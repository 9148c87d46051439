package entities

// EmailMessage is a fully rendered e-mail handed to the notification layer.
type EmailMessage struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	From    string   `json:"from"`
	To      []string `json:"to"`
}
