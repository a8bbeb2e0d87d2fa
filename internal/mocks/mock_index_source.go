package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockIndexSource is a mock type for the IndexSource type.
type MockIndexSource struct {
	mock.Mock
}

// MockIndexSource_Expecter wraps the mock for typed expectations.
type MockIndexSource_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockIndexSource) EXPECT() *MockIndexSource_Expecter {
	return &MockIndexSource_Expecter{mock: &_m.Mock}
}

// IntN provides a mock function with given fields: n.
func (_m *MockIndexSource) IntN(n int) int {
	ret := _m.Called(n)

	if len(ret) == 0 {
		panic("no return value specified for IntN")
	}

	if rf, ok := ret.Get(0).(func(int) int); ok {
		return rf(n)
	}

	return ret.Int(0)
}

// MockIndexSource_IntN_Call is a typed *mock.Call for IntN.
type MockIndexSource_IntN_Call struct {
	*mock.Call
}

// IntN is a helper method to define mock.On call.
func (_e *MockIndexSource_Expecter) IntN(n any) *MockIndexSource_IntN_Call {
	return &MockIndexSource_IntN_Call{Call: _e.mock.On("IntN", n)}
}

// Return sets the return values.
func (_c *MockIndexSource_IntN_Call) Return(i int) *MockIndexSource_IntN_Call {
	_c.Call.Return(i)
	return _c
}

// NewMockIndexSource creates a new instance of MockIndexSource and
// registers a cleanup that asserts all expectations.
func NewMockIndexSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIndexSource {
	m := &MockIndexSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
