package service

import (
	"context"
	"sync"
	"time"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
)

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	nextID    int64
	createErr error
	updateErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.nextID
	m.nextID++
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (m *MockUserRepository) getBy(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getBy(func(u *domain.User) bool { return u.Username == username })
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getBy(func(u *domain.User) bool { return u.Email == email })
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return m.getBy(func(u *domain.User) bool { return u.Phone == phone })
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []*domain.User
	for _, u := range m.users {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if u, ok := m.users[id]; ok {
		u.Status = status
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockUserRepository) UpdateVerification(ctx context.Context, id int64, verification domain.VerificationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if u, ok := m.users[id]; ok {
		u.Verification = verification
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.PasswordHash = hash
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, _ := m.GetByUsername(ctx, username)
	return u != nil, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

func (m *MockUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	u, _ := m.GetByPhone(ctx, phone)
	return u != nil, nil
}

// MockVerificationTokenRepository is an in-memory implementation of
// VerificationTokenRepository
type MockVerificationTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*domain.VerificationToken
}

func NewMockVerificationTokenRepository() *MockVerificationTokenRepository {
	return &MockVerificationTokenRepository{tokens: make(map[string]*domain.VerificationToken)}
}

func (m *MockVerificationTokenRepository) Create(ctx context.Context, token *domain.VerificationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *token
	m.tokens[token.Token] = &clone
	return nil
}

func (m *MockVerificationTokenRepository) Get(ctx context.Context, token string) (*domain.VerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.tokens[token]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (m *MockVerificationTokenRepository) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

// sentMessage records one notifier dispatch for assertions.
type sentMessage struct {
	Channel   string
	Recipient string
	Template  string
	Params    map[string]string
}

// MockNotifier records dispatched notifications
type MockNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendEmail(ctx context.Context, recipient, template string, params map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{Channel: "email", Recipient: recipient, Template: template, Params: params})
	return nil
}

func (m *MockNotifier) SendSMS(ctx context.Context, recipient, template string, params map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{Channel: "sms", Recipient: recipient, Template: template, Params: params})
	return nil
}

func (m *MockNotifier) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
