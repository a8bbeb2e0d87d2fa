// Package mocks holds testify mocks for the ports interfaces, in the shape
// mockery generates with expecter support (NewMockX(t), m.EXPECT().Method(...)).
package mocks
