package server

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/misexecutive/minda-corp/internal/errors"
	"github.com/misexecutive/minda-corp/models"
	"github.com/misexecutive/minda-corp/session"
)

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Account is a stored user record plus its credential and role, which never
// leave the server.
type Account struct {
	models.User
	PasswordHash string
	Role         session.Role
}

// UserStore is an in-memory account repository.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*Account // userID -> account
	byName map[string]string   // lowercase username -> userID
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[string]*Account),
		byName: make(map[string]string),
	}
}

// Create registers an account. Usernames are unique case-insensitively.
func (st *UserStore) Create(username, password string, active bool, role session.Role) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	key := strings.ToLower(username)
	if _, exists := st.byName[key]; exists {
		return nil, apperrors.ErrUserExists
	}

	account := &Account{
		User: models.User{
			UserID:   uuid.NewString(),
			Username: username,
			Active:   models.FlexBool(active),
		},
		PasswordHash: string(hash),
		Role:         role,
	}
	st.users[account.UserID] = account
	st.byName[key] = account.UserID

	copied := *account
	return &copied, nil
}

func (st *UserStore) GetByUsername(username string) (*Account, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	id, ok := st.byName[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *st.users[id]
	return &copied, nil
}

func (st *UserStore) GetByID(userID string) (*Account, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	account, ok := st.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *account
	return &copied, nil
}

// List returns every account's public record, sorted by username.
func (st *UserStore) List() []models.User {
	st.mu.RLock()
	defer st.mu.RUnlock()

	users := make([]models.User, 0, len(st.users))
	for _, account := range st.users {
		users = append(users, account.User)
	}
	sort.Slice(users, func(i, j int) bool {
		return strings.ToLower(users[i].Username) < strings.ToLower(users[j].Username)
	})
	return users
}

// TouchLastLogin records a successful login timestamp.
func (st *UserStore) TouchLastLogin(userID string, at time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if account, ok := st.users[userID]; ok {
		account.LastLoginAt = at.UTC().Format(time.RFC3339)
	}
}
