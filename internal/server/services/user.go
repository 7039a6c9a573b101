// Package services contains server-side business logic. This file implements
// UserService, which creates staff accounts and verifies their credentials.
package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sanctionlog/internal/common"
	"github.com/dmitrijs2005/sanctionlog/internal/dbx"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides credential operations:
//   - CreateUser: hash and store a new account
//   - VerifyUser: check a username/password pair
//   - EnsureUser: create an account only when it is missing
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cost        int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService constructs a UserService hashing with bcrypt.DefaultCost.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m, cost: bcrypt.DefaultCost}
}

// CreateUser hashes password and stores a new user. It returns false with a
// nil error when the username is already taken.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (bool, error) {
	return s.createUser(ctx, s.db, username, password)
}

func (s *UserService) createUser(ctx context.Context, db dbx.DBTX, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return false, common.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword(prehash(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	repo := s.repomanager.Users(db)
	if _, err := repo.Create(ctx, &models.User{Username: username, PasswordHash: string(hash)}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("error creating user: %w", err)
	}
	return true, nil
}

// VerifyUser reports whether password matches the stored hash of username.
// Unknown users and wrong passwords are indistinguishable to the caller; an
// unknown user is still checked against a dummy hash so both paths cost the
// same.
func (s *UserService) VerifyUser(ctx context.Context, username, password string) (bool, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), prehash(password))
			return false, nil
		}
		return false, fmt.Errorf("error looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), prehash(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// EnsureUser creates username inside a transaction unless it already exists.
// It reports whether a user was created.
func (s *UserService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	var created bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Users(tx).GetUserByLogin(ctx, username)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error looking up user: %w", err)
		}

		created, err = s.createUser(ctx, tx, username, password)
		return err
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(prehash("sanctionlog-dummy-password"), s.cost)
	})
	return s.dummyHash
}

// prehash feeds bcrypt a fixed 44-byte digest, since bcrypt only reads the
// first 72 bytes of its input.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
