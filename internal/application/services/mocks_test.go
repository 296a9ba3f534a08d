package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
)

// Mocks

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) ListByManager(ctx context.Context, managerID string) ([]*entities.User, error) {
	args := m.Called(ctx, managerID)
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) ListUnassigned(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) AssignManager(ctx context.Context, employeeID, managerID string, updatedAt time.Time) (*entities.User, error) {
	args := m.Called(ctx, employeeID, managerID, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) GetOrCreate(ctx context.Context, names []string) ([]entities.Tag, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context) ([]entities.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByIDs(ctx context.Context, ids []int64) ([]entities.Tag, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Tag), args.Error(1)
}

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *entities.Feedback, tagIDs []int64) error {
	args := m.Called(ctx, feedback, tagIDs)
	return args.Error(0)
}

func (m *MockFeedbackRepository) Update(ctx context.Context, id string, patch entities.FeedbackPatch, updatedAt time.Time) error {
	args := m.Called(ctx, id, patch, updatedAt)
	return args.Error(0)
}

func (m *MockFeedbackRepository) GetByID(ctx context.Context, id string) (*entities.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*entities.Feedback, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByManager(ctx context.Context, managerID string) ([]*entities.Feedback, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Feedback), args.Error(1)
}

type MockAcknowledgmentRepository struct {
	mock.Mock
}

func (m *MockAcknowledgmentRepository) Upsert(ctx context.Context, ack *entities.Acknowledgment) error {
	args := m.Called(ctx, ack)
	return args.Error(0)
}

func (m *MockAcknowledgmentRepository) GetByFeedback(ctx context.Context, feedbackID, employeeID string) (*entities.Acknowledgment, error) {
	args := m.Called(ctx, feedbackID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Acknowledgment), args.Error(1)
}

type MockFeedbackRequestRepository struct {
	mock.Mock
}

func (m *MockFeedbackRequestRepository) Create(ctx context.Context, request *entities.FeedbackRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockFeedbackRequestRepository) GetByID(ctx context.Context, id int64) (*entities.FeedbackRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FeedbackRequest), args.Error(1)
}

func (m *MockFeedbackRequestRepository) ListOpenByManager(ctx context.Context, managerID string) ([]*entities.FeedbackRequest, error) {
	args := m.Called(ctx, managerID)
	return args.Get(0).([]*entities.FeedbackRequest), args.Error(1)
}

func (m *MockFeedbackRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*entities.FeedbackRequest, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).([]*entities.FeedbackRequest), args.Error(1)
}

func (m *MockFeedbackRequestRepository) Close(ctx context.Context, id int64, closedAt time.Time) (*entities.FeedbackRequest, error) {
	args := m.Called(ctx, id, closedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FeedbackRequest), args.Error(1)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Issue(user *entities.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenManager) Verify(token string) (*providers.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.TokenClaims), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, notification *entities.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockCacheProvider is an in-memory cache recording deletions
type MockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		m.deleted = append(m.deleted, key)
	}
	return nil
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheProvider) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deleted...)
}

// MockDashboardInvalidator records the manager/employee pairs dropped
type MockDashboardInvalidator struct {
	calls [][2]string
}

func (m *MockDashboardInvalidator) Invalidate(ctx context.Context, managerID, employeeID string) {
	m.calls = append(m.calls, [2]string{managerID, employeeID})
}

// MockEventBus records published events and fans them out to subscribers
type MockEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.FeedbackEvent
	published   []*entities.FeedbackEvent
	publishErr  error
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{subscribers: make(map[string][]chan *entities.FeedbackEvent)}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.FeedbackEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, event)
	for _, ch := range m.subscribers[channel] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FeedbackEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.FeedbackEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return nil
}

func (m *MockEventBus) Close() error {
	return nil
}

func (m *MockEventBus) Published() []*entities.FeedbackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.FeedbackEvent(nil), m.published...)
}

func (m *MockEventBus) PublishedTypes() []entities.FeedbackEventType {
	var types []entities.FeedbackEventType
	for _, event := range m.Published() {
		types = append(types, event.Type)
	}
	return types
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func newManager(id string) *entities.User {
	return &entities.User{ID: id, Name: "Manager " + id, Email: id + "@example.com", Role: entities.RoleManager}
}

func newEmployee(id string, managerID *string) *entities.User {
	return &entities.User{ID: id, Name: "Employee " + id, Email: id + "@example.com", Role: entities.RoleEmployee, ManagerID: managerID}
}
