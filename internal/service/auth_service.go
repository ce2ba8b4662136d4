package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

// userTokenLifetime approximates how long an exchanged long-lived user token
// stays valid. The platform does not always return an expiry; this watermark
// is used when it does not.
const userTokenLifetime = 60 * 24 * time.Hour

var oauthScopes = []string{
	"pages_show_list",
	"pages_read_engagement",
	"pages_manage_engagement",
	"pages_manage_metadata",
	"pages_messaging",
	"business_management",
	"pages_read_user_content",
}

type AuthService interface {
	LoginURL() (url, state string, err error)
	LoginCallback(ctx context.Context, code string) (int64, error)
	PasswordLogin(ctx context.Context, username, password string) (int64, error)
}

type authService struct {
	cfg config.Config
	gc  *graph.Client
	a   repository.AccountRepository
}

func NewAuthService(cfg config.Config, gc *graph.Client, a repository.AccountRepository) AuthService {
	return &authService{
		cfg: cfg,
		gc:  gc,
		a:   a,
	}
}

func (s *authService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.FacebookAppID,
		ClientSecret: s.cfg.FacebookAppSecret,
		RedirectURL:  s.cfg.FacebookRedirectURI,
		Scopes:       oauthScopes,
		Endpoint:     facebook.Endpoint,
	}
}

// LoginURL builds the authorization URL with a fresh state nonce. The caller
// stores the state and checks it on callback.
func (s *authService) LoginURL() (string, string, error) {
	oauth2Config := s.oauthConfig()
	if oauth2Config.ClientID == "" || oauth2Config.ClientSecret == "" {
		return "", "", fmt.Errorf("oauth configuration is incomplete")
	}

	state, err := utils.GenerateRandomKey(21)
	if err != nil {
		return "", "", err
	}
	return oauth2Config.AuthCodeURL(state), state, nil
}

// LoginCallback exchanges the authorization code, resolves the platform user
// behind it and upserts the matching account. Returning users get their
// stored token and profile rotated; the pages themselves are synced
// separately.
func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		return 0, fmt.Errorf("%w: code is empty", ErrValidation)
	}

	oauth2Config := s.oauthConfig()
	if oauth2Config.ClientID == "" || oauth2Config.ClientSecret == "" {
		return 0, fmt.Errorf("oauth configuration is incomplete")
	}

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	userInfo, err := s.gc.Me(ctx, token.AccessToken)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	encrypted, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return 0, err
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(userTokenLifetime)
	}

	account, isExist, err := s.a.GetByPlatformUserID(ctx, userInfo.ID)
	if err != nil {
		return 0, err
	}

	avatar := ""
	if userInfo.Picture != nil {
		avatar = userInfo.Picture.URL()
	}

	var userID int64
	if !isExist {
		userID, err = s.a.Create(ctx, &models.Account{
			Kind:           models.AccountKindOAuth,
			PlatformUserID: userInfo.ID,
			Name:           userInfo.Name,
			Email:          userInfo.Email,
			AvatarURL:      avatar,
			AccessToken:    encrypted,
			TokenExpiresAt: expiresAt,
		})
		if err != nil {
			slog.Info(err.Error())
			return 0, err
		}
	} else {
		account.Name = userInfo.Name
		account.Email = userInfo.Email
		account.AvatarURL = avatar
		account.AccessToken = encrypted
		account.TokenExpiresAt = expiresAt
		if err := s.a.UpdateProfile(ctx, account); err != nil {
			slog.Info(err.Error())
			return 0, err
		}
		userID = account.ID
	}

	if err := s.a.SetLastLogin(ctx, userID, time.Now()); err != nil {
		slog.Info(err.Error())
	}
	return userID, nil
}

// PasswordLogin authenticates the operator account from configured
// credentials. The account row is created on first login; it never carries a
// personal platform token.
func (s *authService) PasswordLogin(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if s.cfg.AdminPassword == "" {
		return 0, fmt.Errorf("%w: password login is not configured", ErrInvalidCredential)
	}

	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminName))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword))
	if nameOK != 1 || passOK != 1 {
		return 0, fmt.Errorf("%w: wrong username or password", ErrInvalidCredential)
	}

	account, isExist, err := s.a.GetInternal(ctx)
	if err != nil {
		return 0, err
	}

	var userID int64
	if !isExist {
		userID, err = s.a.Create(ctx, &models.Account{
			Kind: models.AccountKindInternal,
			Name: s.cfg.AdminName,
		})
		if err != nil {
			slog.Info(err.Error())
			return 0, err
		}
	} else {
		userID = account.ID
	}

	if err := s.a.SetLastLogin(ctx, userID, time.Now()); err != nil {
		slog.Info(err.Error())
	}
	return userID, nil
}
