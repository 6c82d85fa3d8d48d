// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package devserver

import (
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"legaltoolkit/authbridge/internal/backend"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("incorrect email or password")
	ErrInactive       = errors.New("inactive user")
	ErrUnknownUser    = errors.New("user not found")
)

// User is an account held by the dev server.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash []byte
	IsActive     bool
	CreatedAt    time.Time
	Subscription *backend.SubscriptionInfo
}

// Profile renders u the way GET /user/profile returns it.
func (u User) Profile() backend.UserProfile {
	return backend.UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		IsActive:     u.IsActive,
		CreatedAt:    backend.Timestamp{Time: u.CreatedAt},
		Subscription: u.Subscription,
	}
}

// Users is an in-memory account repository. Ids start at 1.
type Users struct {
	mu      sync.RWMutex
	byID    map[int64]*User
	byEmail map[string]*User
	nextID  int64
	cost    int
	now     func() time.Time
}

// NewUsers creates an empty repository hashing passwords at bcrypt cost.
// A cost of zero selects bcrypt.DefaultCost.
func NewUsers(cost int) *Users {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Users{
		byID:    make(map[int64]*User),
		byEmail: make(map[string]*User),
		nextID:  1,
		cost:    cost,
		now:     time.Now,
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account.
func (r *Users) Register(email, password, fullName string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return User{}, err
	}

	key := normaliseEmail(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[key]; ok {
		return User{}, ErrEmailTaken
	}
	u := &User{
		ID:           r.nextID,
		Email:        strings.TrimSpace(email),
		FullName:     fullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    r.now().UTC(),
	}
	r.nextID++
	r.byID[u.ID] = u
	r.byEmail[key] = u
	return *u, nil
}

// Authenticate checks email and password. The password is checked before
// the active flag, so a wrong password never reveals that an account is disabled.
func (r *Users) Authenticate(email, password string) (User, error) {
	r.mu.RLock()
	u, ok := r.byEmail[normaliseEmail(email)]
	var snapshot User
	if ok {
		snapshot = *u
	}
	r.mu.RUnlock()

	if !ok {
		return User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(snapshot.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	if !snapshot.IsActive {
		return User{}, ErrInactive
	}
	return snapshot, nil
}

// Get returns the account with id.
func (r *Users) Get(id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrUnknownUser
	}
	return *u, nil
}

// SetActive enables or disables an account.
func (r *Users) SetActive(id int64, active bool) error {
	return r.update(id, func(u *User) { u.IsActive = active })
}

// SetSubscription attaches a plan to an account. A nil sub removes it.
func (r *Users) SetSubscription(id int64, sub *backend.SubscriptionInfo) error {
	return r.update(id, func(u *User) { u.Subscription = sub })
}

func (r *Users) update(id int64, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrUnknownUser
	}
	fn(u)
	return nil
}
