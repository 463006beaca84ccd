package handler

import (
	"sync"

	"legal-doc-simplifier/internal/domain"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct {
	mu       sync.Mutex
	messages []string
	fields   [][]interface{}
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

var _ domain.Logger = (*MockHandlerLogger)(nil)

func (l *MockHandlerLogger) record(msg string, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{}) { l.record(msg, fields) }
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {
	l.record(msg, append([]interface{}{"error", err}, fields...))
}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{}) { l.record(msg, fields) }
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})  { l.record(msg, fields) }

// Field returns the value logged under key for the first message named msg
func (l *MockHandlerLogger) Field(msg, key string) (interface{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, m := range l.messages {
		if m != msg {
			continue
		}
		kv := l.fields[i]
		for j := 0; j+1 < len(kv); j += 2 {
			if kv[j] == key {
				return kv[j+1], true
			}
		}
	}
	return nil, false
}
