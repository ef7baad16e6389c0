// internal/sender/sender.go
package sender

// EmailSender delivers one email and returns a provider message id.
type EmailSender interface {
	Send(from, to, subject, text, html string) (string, error)
}

// SMSSender delivers one SMS and returns a provider message id.
type SMSSender interface {
	Send(from, to, body string) (string, error)
}
