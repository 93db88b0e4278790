package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/repository"
)

const defaultUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProfile is the subset of the provider userinfo response the linking
// flow needs.
type GoogleProfile struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GoogleVerifier resolves a provider access token into a profile by calling
// the userinfo endpoint. The URL and client are injectable for tests.
type GoogleVerifier struct {
	UserinfoURL string
	Client      *http.Client
}

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{
		UserinfoURL: defaultUserinfoURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Profile fetches and decodes the userinfo document for the access token.
// A non-200 provider response means the token is not (or no longer) valid.
func (g *GoogleVerifier) Profile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var p GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	if p.Sub == "" || p.Email == "" {
		return nil, errors.New("userinfo missing subject or email")
	}
	return &p, nil
}

// GoogleHandler implements federated login: POST /api/auth/google exchanges
// a provider access token for a session token, creating or linking the
// account on first contact.
type GoogleHandler struct {
	Auth     *AuthHandler
	Verifier *GoogleVerifier
}

func NewGoogleHandler(auth *AuthHandler, verifier *GoogleVerifier) *GoogleHandler {
	return &GoogleHandler{Auth: auth, Verifier: verifier}
}

type googleLoginReq struct {
	AccessToken string `json:"access_token"`
}

// Login resolves the provider profile and signs the caller in. Matching
// order: existing federated link, then an existing account with the same
// email (which gets the link attached), then a brand-new federated account.
// New and newly linked accounts never gain a usable password; their stored
// hash is a randomized placeholder.
func (h *GoogleHandler) Login(c echo.Context) error {
	var req googleLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.AccessToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "access_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, err := h.Verifier.Profile(ctx, strings.TrimSpace(req.AccessToken))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid google token"})
	}

	u, err := h.Auth.Users.GetByGoogleID(ctx, profile.Sub)
	switch {
	case err == nil:
		// already linked
	case errors.Is(err, repository.ErrUserNotFound):
		u, err = h.linkOrCreate(ctx, profile)
		if err != nil {
			c.Logger().Errorf("google login: link or create: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "google login failed"})
		}
	default:
		c.Logger().Errorf("google login: lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "google login failed"})
	}

	token, _, err := h.Auth.Issuer.Issue(u)
	if err != nil {
		c.Logger().Errorf("google login: issue token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "google login failed"})
	}
	return c.JSON(http.StatusOK, loginResp{Message: "login successful", Token: token, User: u})
}

func (h *GoogleHandler) linkOrCreate(ctx context.Context, profile *GoogleProfile) (*model.User, error) {
	u, err := h.Auth.Users.GetByEmail(ctx, profile.Email)
	if err == nil {
		// First federated login for an existing local account: attach the
		// marker. From here on the marker takes precedence and the stored
		// hash is no longer accepted at login.
		if err := h.Auth.Users.LinkGoogleID(ctx, u.ID, profile.Sub); err != nil {
			return nil, err
		}
		u.GoogleID = profile.Sub
		return u, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	u = &model.User{
		Name:     profile.Name,
		Email:    profile.Email,
		GoogleID: profile.Sub,
		Role:     model.RoleStudent,
	}
	if err := h.Auth.Users.Create(ctx, u, "", h.Auth.Cfg.BcryptCost); err != nil {
		return nil, err
	}
	return u, nil
}
