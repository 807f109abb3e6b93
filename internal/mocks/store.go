package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of storage.Store.
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a MockStore that asserts its expectations on cleanup.
func NewMockStore(t TestingT) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	ret := m.Called(ctx, key)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

func (m *MockStore) SetItem(ctx context.Context, key, value string) error {
	ret := m.Called(ctx, key, value)
	return ret.Error(0)
}

func (m *MockStore) RemoveItem(ctx context.Context, key string) error {
	ret := m.Called(ctx, key)
	return ret.Error(0)
}

func (m *MockStore) Keys(ctx context.Context) ([]string, error) {
	ret := m.Called(ctx)
	v, _ := ret.Get(0).([]string)
	return v, ret.Error(1)
}

func (m *MockStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
