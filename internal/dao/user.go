package dao

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hybrid-cipher-go/internal/storage"
)

var (
	ErrInvalidUsername  = errors.New("username is required")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUserExists       = errors.New("user already exists")
	ErrPasswordTooShort = errors.New("password too short")
)

// User represents an API user
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserDAO handles user data access
type UserDAO struct {
	store *storage.Store
	cost  int

	dummyOnce sync.Once
	dummy     []byte
}

// NewUserDAO creates a new user DAO
func NewUserDAO(store *storage.Store) *UserDAO {
	return &UserDAO{store: store, cost: bcrypt.DefaultCost}
}

func (d *UserDAO) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Create stores a new user with a bcrypt hash of password
func (d *UserDAO) Create(username, password string) error {
	if username == "" {
		return ErrInvalidUsername
	}
	hash, err := d.hashPassword(password)
	if err != nil {
		return err
	}

	inserted, err := d.store.InsertJSON(storage.BucketUsers, username, User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !inserted {
		return ErrUserExists
	}
	log.Info().Str("username", username).Msg("User created")
	return nil
}

// Validate checks password against the stored hash. Unknown users still
// pay for one bcrypt comparison.
func (d *UserDAO) Validate(username, password string) error {
	user, err := d.Get(username)
	if errors.Is(err, ErrUserNotFound) {
		bcrypt.CompareHashAndPassword(d.dummyHash(), []byte(password))
		return err
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidPassword
	}
	return nil
}

func (d *UserDAO) dummyHash() []byte {
	d.dummyOnce.Do(func() {
		d.dummy, _ = bcrypt.GenerateFromPassword([]byte("hybrid-cipher"), d.cost)
	})
	return d.dummy
}

// Get retrieves a user
func (d *UserDAO) Get(username string) (*User, error) {
	var user User
	found, err := d.store.GetJSON(storage.BucketUsers, username, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// MinPasswordLength applies to changed passwords
const MinPasswordLength = 8

// UpdatePassword updates a user's password
func (d *UserDAO) UpdatePassword(username, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	user, err := d.Get(username)
	if err != nil {
		return err
	}
	if user.PasswordHash, err = d.hashPassword(newPassword); err != nil {
		return err
	}
	return d.store.SetJSON(storage.BucketUsers, username, user)
}

// Delete deletes a user
func (d *UserDAO) Delete(username string) error {
	found, err := d.store.Delete(storage.BucketUsers, username)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}

// DefaultUsername is created with password "admin" on an empty keystore
const DefaultUsername = "admin"

// EnsureDefaultUser creates the admin user unless it already exists
func (d *UserDAO) EnsureDefaultUser() error {
	err := d.Create(DefaultUsername, "admin")
	if errors.Is(err, ErrUserExists) {
		return nil
	}
	if err == nil {
		log.Warn().Str("username", DefaultUsername).Msg("Created default user with the default password; change it")
	}
	return err
}
