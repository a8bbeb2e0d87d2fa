package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
)

// MockDatasetProvider is a mock type for the DatasetProvider type.
type MockDatasetProvider struct {
	mock.Mock
}

// MockDatasetProvider_Expecter wraps the mock for typed expectations.
type MockDatasetProvider_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockDatasetProvider) EXPECT() *MockDatasetProvider_Expecter {
	return &MockDatasetProvider_Expecter{mock: &_m.Mock}
}

// Dataset provides a mock function with given fields: ctx.
func (_m *MockDatasetProvider) Dataset(ctx context.Context) (*domain.Dataset, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Dataset")
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

// MockDatasetProvider_Dataset_Call is a typed *mock.Call for Dataset.
type MockDatasetProvider_Dataset_Call struct {
	*mock.Call
}

// Dataset is a helper method to define mock.On call.
func (_e *MockDatasetProvider_Expecter) Dataset(ctx any) *MockDatasetProvider_Dataset_Call {
	return &MockDatasetProvider_Dataset_Call{Call: _e.mock.On("Dataset", ctx)}
}

// Return sets the return values.
func (_c *MockDatasetProvider_Dataset_Call) Return(ds *domain.Dataset, err error) *MockDatasetProvider_Dataset_Call {
	_c.Call.Return(ds, err)
	return _c
}

// RunAndReturn sets a function computing the return values.
func (_c *MockDatasetProvider_Dataset_Call) RunAndReturn(
	run func(context.Context) (*domain.Dataset, error),
) *MockDatasetProvider_Dataset_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockDatasetProvider creates a new instance of MockDatasetProvider and
// registers a cleanup that asserts all expectations.
func NewMockDatasetProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDatasetProvider {
	m := &MockDatasetProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
