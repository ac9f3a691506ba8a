package service_test

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/niksmo/storefront/internal/core/domain"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FetchPage(
	ctx context.Context, q domain.PageQuery,
) (domain.ProductPage, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.ProductPage), args.Error(1)
}

func (m *MockCatalog) Product(
	ctx context.Context, id int,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalog) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) UpdateProduct(
	ctx context.Context, id int, d domain.ProductDraft,
) (domain.Product, error) {
	args := m.Called(ctx, id, d)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) DeleteProduct(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(
	ctx context.Context, username, password string,
) (domain.RemoteSession, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.RemoteSession), args.Error(1)
}

func (m *MockGateway) Refresh(
	ctx context.Context, refreshToken string,
) (domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(domain.TokenPair), args.Error(1)
}

// memStore is an in-memory stand-in for the local store.
type memStore struct {
	m map[string]string
}

func newMemStore() *memStore {
	return &memStore{make(map[string]string)}
}

func (s *memStore) Get(key string) (string, error) {
	v, ok := s.m[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *memStore) Set(key, value string) error {
	s.m[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.m, key)
	return nil
}

func (s *memStore) GetJSON(key string, v any) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

func (s *memStore) SetJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(b))
}
