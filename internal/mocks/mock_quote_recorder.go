package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockQuoteRecorder is a mock type for the QuoteRecorder type.
type MockQuoteRecorder struct {
	mock.Mock
}

// MockQuoteRecorder_Expecter wraps the mock for typed expectations.
type MockQuoteRecorder_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockQuoteRecorder) EXPECT() *MockQuoteRecorder_Expecter {
	return &MockQuoteRecorder_Expecter{mock: &_m.Mock}
}

// QuoteServed provides a mock function with given fields: result.
func (_m *MockQuoteRecorder) QuoteServed(result string) {
	_m.Called(result)
}

// MockQuoteRecorder_QuoteServed_Call is a typed *mock.Call for QuoteServed.
type MockQuoteRecorder_QuoteServed_Call struct {
	*mock.Call
}

// QuoteServed is a helper method to define mock.On call.
func (_e *MockQuoteRecorder_Expecter) QuoteServed(result any) *MockQuoteRecorder_QuoteServed_Call {
	return &MockQuoteRecorder_QuoteServed_Call{Call: _e.mock.On("QuoteServed", result)}
}

// Return marks the call as having no return values.
func (_c *MockQuoteRecorder_QuoteServed_Call) Return() *MockQuoteRecorder_QuoteServed_Call {
	_c.Call.Return()
	return _c
}

// NewMockQuoteRecorder creates a new instance of MockQuoteRecorder and
// registers a cleanup that asserts all expectations.
func NewMockQuoteRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteRecorder {
	m := &MockQuoteRecorder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
