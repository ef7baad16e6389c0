// internal/sender/mock.go
package sender

import (
	"sync"

	"github.com/google/uuid"
)

// SentMessage records one delivery made through a mock sender.
type SentMessage struct {
	From    string
	To      string
	Subject string
	Body    string
}

// MockEmailSender records sends in memory. FailFor makes delivery to a
// specific address fail, for fault-isolation tests.
type MockEmailSender struct {
	mu      sync.Mutex
	Sent    []SentMessage
	FailFor map[string]error
}

func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{FailFor: map[string]error{}}
}

func (m *MockEmailSender) Send(from, to, subject, text, html string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFor[to]; ok {
		return "", err
	}
	m.Sent = append(m.Sent, SentMessage{From: from, To: to, Subject: subject, Body: text})
	return uuid.NewString(), nil
}

// MockSMSSender is MockEmailSender's SMS counterpart.
type MockSMSSender struct {
	mu      sync.Mutex
	Sent    []SentMessage
	FailFor map[string]error
}

func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{FailFor: map[string]error{}}
}

func (m *MockSMSSender) Send(from, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFor[to]; ok {
		return "", err
	}
	m.Sent = append(m.Sent, SentMessage{From: from, To: to, Body: body})
	return uuid.NewString(), nil
}

var (
	_ EmailSender = (*MockEmailSender)(nil)
	_ SMSSender   = (*MockSMSSender)(nil)
)
