package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtimes/internal/config"
	"github.com/iliyamo/cinema-showtimes/internal/middleware"
	"github.com/iliyamo/cinema-showtimes/internal/queue"
	"github.com/iliyamo/cinema-showtimes/internal/repository"
	"github.com/iliyamo/cinema-showtimes/internal/service"
	"github.com/iliyamo/cinema-showtimes/internal/utils"
)

// publishTimeout bounds the best-effort event publish after a write.
const publishTimeout = 3 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Prefs  *repository.PreferenceRepo
	Events service.Publisher
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, p *repository.PreferenceRepo, ev service.Publisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Prefs: p, Events: ev}
}

// ----- DTOs -----

type registerReq struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	CityID   *uint64 `json:"city_id"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResp struct {
	OK          bool   `json:"ok"`
	AccessToken string `json:"access_token,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type meResp struct {
	Email           string                      `json:"email"`
	CityID          *uint64                     `json:"city_id"`
	FavoriteCinemas []repository.FavoriteCinema `json:"favorite_cinemas"`
	FavoriteMovies  []repository.StarredMovie   `json:"favorite_movies"`
}

// Register creates an account and returns an access token.  A taken email
// is reported as {ok:false} with status 200.
// POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return invalid(c, "email/password required", err)
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.CityID, h.Cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusOK, authResp{OK: false})
	case errors.Is(err, repository.ErrNotFound):
		// unknown city_id
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown city"})
	case err != nil:
		return dbError(c, err)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	h.publish(c, queue.UsersRegisteredQueue, queue.UserRegisteredEvent{
		UserID:       uid,
		Email:        req.Email,
		CityID:       req.CityID,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, authResp{OK: true, AccessToken: access.Token})
}

// Login verifies credentials and returns a fresh access token.
// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return invalid(c, "email/password required", err)
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, authResp{OK: false, Reason: "email not registered"})
	}
	if err != nil {
		return dbError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusOK, authResp{OK: false})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, authResp{OK: true, AccessToken: access.Token})
}

// Me returns the caller's profile with favorite cinemas and starred movies.
// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.IdentityFrom(c).UserID()
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Missing Authorization Header"})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		// token outlived its account
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "invalid token"})
	}
	if err != nil {
		return dbError(c, err)
	}
	cinemas, err := h.Prefs.ListFavorites(ctx, uid)
	if err != nil {
		return dbError(c, err)
	}
	movies, err := h.Prefs.ListStarred(ctx, uid)
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, meResp{
		Email:           u.Email,
		CityID:          u.CityID,
		FavoriteCinemas: cinemas,
		FavoriteMovies:  movies,
	})
}

// publish sends an event without letting a broker failure reach the client.
func (h *AuthHandler) publish(c echo.Context, queueName string, event any) {
	publish(c, h.Events, queueName, event)
}

func publish(c echo.Context, p service.Publisher, queueName string, event any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	// errors are logged by the publisher
	_ = p.Publish(ctx, queueName, event)
}
