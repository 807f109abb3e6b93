// Package mocks holds testify mocks for replshell interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// TestingT is the subset of *testing.T the mock constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockCacheManager is a mock implementation of cachemanager.CacheManager.
type MockCacheManager[K ~string, V any] struct {
	mock.Mock
}

// NewMockCacheManager creates a MockCacheManager that asserts its expectations on cleanup.
func NewMockCacheManager[K ~string, V any](t TestingT) *MockCacheManager[K, V] {
	m := &MockCacheManager[K, V]{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	ret := m.Called(ctx, key)
	v, _ := ret.Get(0).(V)
	return v, ret.Bool(1)
}

func (m *MockCacheManager[K, V]) GetMultiple(ctx context.Context, keys []K) (map[K]V, bool) {
	ret := m.Called(ctx, keys)
	v, _ := ret.Get(0).(map[K]V)
	return v, ret.Bool(1)
}

func (m *MockCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	ret := m.Called(ctx, key, ttl)
	v, _ := ret.Get(0).(V)
	return v, ret.Bool(1)
}

func (m *MockCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *MockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	ret := m.Called(ctx, keys)
	return ret.Error(0)
}

func (m *MockCacheManager[K, V]) Flush(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

func (m *MockCacheManager[K, V]) Keys(ctx context.Context) []K {
	ret := m.Called(ctx)
	v, _ := ret.Get(0).([]K)
	return v
}
