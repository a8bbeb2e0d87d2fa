package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
)

// MockDatasetSource is a mock type for the DatasetSource type.
type MockDatasetSource struct {
	mock.Mock
}

// MockDatasetSource_Expecter wraps the mock for typed expectations.
type MockDatasetSource_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockDatasetSource) EXPECT() *MockDatasetSource_Expecter {
	return &MockDatasetSource_Expecter{mock: &_m.Mock}
}

// Name provides a mock function with no fields.
func (_m *MockDatasetSource) Name() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Name")
	}

	return ret.String(0)
}

// MockDatasetSource_Name_Call is a typed *mock.Call for Name.
type MockDatasetSource_Name_Call struct {
	*mock.Call
}

// Name is a helper method to define mock.On call.
func (_e *MockDatasetSource_Expecter) Name() *MockDatasetSource_Name_Call {
	return &MockDatasetSource_Name_Call{Call: _e.mock.On("Name")}
}

// Return sets the return values.
func (_c *MockDatasetSource_Name_Call) Return(name string) *MockDatasetSource_Name_Call {
	_c.Call.Return(name)
	return _c
}

// Load provides a mock function with given fields: ctx.
func (_m *MockDatasetSource) Load(ctx context.Context) (*domain.Dataset, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Load")
	}

	if rf, ok := ret.Get(0).(func(context.Context) (*domain.Dataset, error)); ok {
		return rf(ctx)
	}

	var r0 *domain.Dataset
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Dataset)
	}

	return r0, ret.Error(1)
}

// MockDatasetSource_Load_Call is a typed *mock.Call for Load.
type MockDatasetSource_Load_Call struct {
	*mock.Call
}

// Load is a helper method to define mock.On call.
func (_e *MockDatasetSource_Expecter) Load(ctx any) *MockDatasetSource_Load_Call {
	return &MockDatasetSource_Load_Call{Call: _e.mock.On("Load", ctx)}
}

// Return sets the return values.
func (_c *MockDatasetSource_Load_Call) Return(ds *domain.Dataset, err error) *MockDatasetSource_Load_Call {
	_c.Call.Return(ds, err)
	return _c
}

// NewMockDatasetSource creates a new instance of MockDatasetSource and
// registers a cleanup that asserts all expectations.
func NewMockDatasetSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDatasetSource {
	m := &MockDatasetSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
