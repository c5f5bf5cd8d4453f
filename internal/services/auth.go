package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aoralabs/aora/internal/common"
	"github.com/aoralabs/aora/internal/logging"
	"github.com/aoralabs/aora/internal/models"
	"github.com/aoralabs/aora/internal/remote"
	"github.com/aoralabs/aora/internal/sessioncache"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account, open a session, and write the profile
//     document with an initials-avatar URL.
//   - Login: open a session and resolve the profile; the session is cached
//     locally, sealed with a key derived from the password.
//   - Resume: restore the cached session without a fresh login.
//   - Logout: close the remote session and drop the local cache.
//   - CurrentUser: resolve the profile of the active session.
//
// All methods honor context cancellation and timeouts.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte, username string) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Resume(ctx context.Context, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

type authService struct {
	client     remote.Client
	cache      *sessioncache.Store
	collection string
	log        logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client,
// session cache, and user collection.
func NewAuthService(client remote.Client, cache *sessioncache.Store, userCollectionID string, log logging.Logger) AuthService {
	return &authService{client: client, cache: cache, collection: userCollectionID, log: log}
}

func (a *authService) Register(ctx context.Context, email string, password []byte, username string) (*models.User, error) {
	account, err := a.client.CreateAccount(ctx, email, string(password), username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if _, err := a.client.CreateSession(ctx, email, string(password)); err != nil {
		return nil, fmt.Errorf("register: open session: %w", err)
	}

	user := &models.User{
		AccountID: account.ID,
		Email:     email,
		Username:  username,
		Avatar:    a.client.InitialsAvatarURL(username),
	}

	doc, err := a.client.CreateDocument(ctx, a.collection, user)
	if err != nil {
		return nil, fmt.Errorf("register: create profile: %w", err)
	}
	user.ID = doc.ID

	a.saveCache(ctx, email, user.ID, password)

	a.log.Info(ctx, "registered", "user_id", user.ID, "username", username)
	return user, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	if _, err := a.client.CreateSession(ctx, email, string(password)); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	user, err := a.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	a.saveCache(ctx, email, user.ID, password)

	a.log.Info(ctx, "logged in", "user_id", user.ID)
	return user, nil
}

// Resume restores the locally cached session. The password only unlocks the
// cache; no credentials are sent to the backend. The restored session is
// verified with a profile fetch, so a revoked or expired session surfaces as
// an error rather than later surprises.
func (a *authService) Resume(ctx context.Context, password []byte) (*models.User, error) {
	sess, err := a.cache.Load(password)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}

	a.client.SetSession(sess.Secret)

	user, err := a.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// Stale cache: the backend no longer accepts the session.
			_ = a.cache.Clear()
			a.client.SetSession("")
		}
		return nil, fmt.Errorf("resume: %w", err)
	}

	a.log.Info(ctx, "session resumed", "user_id", user.ID)
	return user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.client.DeleteSession(ctx, "current")

	// The local cache goes away regardless of the remote outcome.
	if cerr := a.cache.Clear(); cerr != nil {
		a.log.Warn(ctx, "could not clear session cache", "err", cerr)
	}

	if err != nil && !errors.Is(err, common.ErrUnauthorized) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser resolves the profile document of the active session: account
// lookup, then a filtered query on the user collection by account ID.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	account, err := a.client.CurrentAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	docs, err := a.client.ListDocuments(ctx, a.collection, remote.Equal("accountId", account.ID))
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("current user: profile for account %s: %w", account.ID, common.ErrNotFound)
	}

	var user models.User
	if err := docs[0].Decode(&user); err != nil {
		return nil, fmt.Errorf("current user: decode profile: %w", err)
	}
	user.ID = docs[0].ID
	return &user, nil
}

func (a *authService) saveCache(ctx context.Context, email, userID string, password []byte) {
	sess := sessioncache.Session{Email: email, UserID: userID, Secret: a.client.SessionSecret()}
	if err := a.cache.Save(sess, password); err != nil {
		// Resume will not work, but the live session is unaffected.
		a.log.Warn(ctx, "could not save session cache", "err", err)
	}
}
