package inmemdb

import (
	"context"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/auth"
	"github.com/trezcool/proctor/core/session"
	"github.com/trezcool/proctor/core/user"
)

const tokenIssuer = "proctor-mock"

var (
	errAuthenticationFailed = unauthorized("invalid credentials")
	errAccountSuspended     = &core.APIError{Status: http.StatusForbidden, Message: "account suspended"}
)

// authRepository is the mock token issuer: HS256 tokens signed with the mock signing key.
type authRepository struct {
	db *DB
}

var _ auth.Repository = (*authRepository)(nil) // interface compliance check

func NewAuthRepository(db *DB) auth.Repository {
	return &authRepository{db: db}
}

func (repo *authRepository) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	repo.db.user.Lock()
	i := -1
	for j, row := range repo.db.user.rows {
		if row.user.Username == req.Username || row.user.Email == req.Username {
			i = j
			break
		}
	}
	if i < 0 || repo.db.user.rows[i].passwordHash == nil {
		repo.db.user.Unlock()
		return auth.LoginResponse{}, errAuthenticationFailed
	}
	row := repo.db.user.rows[i]
	if err := bcrypt.CompareHashAndPassword(row.passwordHash, []byte(req.Password)); err != nil {
		repo.db.user.Unlock()
		return auth.LoginResponse{}, errAuthenticationFailed
	}
	if user.Statuses.Normalize(row.user.Status) == user.StatusSuspended {
		repo.db.user.Unlock()
		return auth.LoginResponse{}, errAccountSuspended
	}
	now := repo.db.now().UTC()
	repo.db.user.rows[i].user.LastLogin = &now
	usr := repo.db.user.rows[i].user
	repo.db.user.Unlock()

	resp, err := repo.issue(usr, now.Unix())
	if err != nil {
		return auth.LoginResponse{}, err
	}
	repo.db.record(client.ContextWithToken(ctx, resp.Token), "auth.login", "user:"+usr.Username, "")
	return resp, nil
}

// Refresh trades a valid token for a new one. The old token is revoked.
func (repo *authRepository) Refresh(ctx context.Context) (auth.LoginResponse, error) {
	token := repo.db.token(ctx)
	claims, err := repo.verify(token)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	repo.db.user.RLock()
	i := repo.db.user.index(core.ID(claims.Subject), userID)
	var usr user.User
	if i >= 0 {
		usr = repo.db.user.rows[i].user
	}
	repo.db.user.RUnlock()
	if i < 0 {
		return auth.LoginResponse{}, unauthorized("user no longer exists")
	}
	if user.Statuses.Normalize(usr.Status) == user.StatusSuspended {
		return auth.LoginResponse{}, errAccountSuspended
	}

	resp, err := repo.issue(usr, claims.IssuedAt)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	repo.revoke(token)
	return resp, nil
}

func (repo *authRepository) Logout(ctx context.Context) error {
	token := repo.db.token(ctx)
	if _, err := repo.verify(token); err != nil {
		return err
	}
	repo.revoke(token)
	repo.db.record(ctx, "auth.logout", "", "")
	return nil
}

func (repo *authRepository) issue(usr user.User, origIat int64) (auth.LoginResponse, error) {
	now := repo.db.now()
	claims := session.Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        newID().String(),
			Issuer:    tokenIssuer,
			Subject:   usr.ID.String(),
			ExpiresAt: now.Add(repo.db.conf.TokenTTL).Unix(),
			IssuedAt:  origIat,
		},
		Username: usr.Username,
		Role:     user.Roles.Normalize(usr.Role),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(repo.db.conf.SigningKey))
	if err != nil {
		return auth.LoginResponse{}, errors.Wrap(err, "signing token")
	}
	return auth.LoginResponse{
		Token: token,
		User:  session.User{Username: claims.Username, Role: claims.Role},
	}, nil
}

// verify checks the signature, expiry and revocation of token.
func (repo *authRepository) verify(token string) (*session.Claims, error) {
	if token == "" {
		return nil, unauthorized("authentication required")
	}
	claims := new(session.Claims)
	// expiry is checked below against the DB clock
	parser := &jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(repo.db.conf.SigningKey), nil
	})
	if err != nil {
		return nil, unauthorized("invalid or expired token")
	}
	if claims.ExpiresAt > 0 && repo.db.now().After(time.Unix(claims.ExpiresAt, 0)) {
		return nil, unauthorized("invalid or expired token")
	}

	repo.db.revoked.RLock()
	defer repo.db.revoked.RUnlock()
	for _, t := range repo.db.revoked.rows {
		if t == token {
			return nil, unauthorized("token revoked")
		}
	}
	return claims, nil
}

func (repo *authRepository) revoke(token string) {
	repo.db.revoked.Lock()
	repo.db.revoked.rows = append(repo.db.revoked.rows, token)
	repo.db.revoked.Unlock()
}
