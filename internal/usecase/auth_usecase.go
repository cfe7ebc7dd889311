package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	//400 入力不足
	ErrInvalidInput = errors.New("invalid input")
	//400 email重複
	ErrEmailAlreadyUsed = errors.New("email already used")
	//400 シッパーのハブが存在しない
	ErrUnknownHub = errors.New("unknown hub")
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, req RegisterRequest) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	ProfileName string `json:"profile_name"`
	Address     string `json:"address"`
	HubID       int64  `json:"hub_id"`
}

type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ProfileName string `json:"profile_name"`
	HubID       *int64 `json:"hub_id,omitempty"`
}

type RegisterResponse struct {
	User UserDTO `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginResponse struct {
	User  UserDTO  `json:"user"`
	Token TokenDTO `json:"token"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	validator AuthValidator
}

func NewAuthUsecase(cfg config.Config, users repo.UserRepository, validator AuthValidator) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users, validator: validator}
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Role:        string(u.Role),
		ProfileName: u.ProfileName,
		HubID:       u.HubID,
	}
}

// Register は3役割共通の登録。役割ごとの必須項目はvalidatorが見る。
func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := u.validator.ValidateRegister(ctx, req); err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyUsed):
			return nil, NewHTTPError(http.StatusBadRequest, "email already used")
		case errors.Is(err, ErrUnknownHub):
			return nil, NewHTTPError(http.StatusBadRequest, "unknown hub")
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid input")
		}
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(pwHash),
		Role:         model.Role(req.Role),
		ProfileName:  strings.TrimSpace(req.ProfileName),
		Address:      strings.TrimSpace(req.Address),
		IsActive:     true,
	}
	if user.Role == model.RoleShipper {
		hubID := req.HubID
		user.HubID = &hubID
	}

	created, err := u.users.Create(ctx, user)
	if err != nil {
		//uniqueIndex競合は重複扱い
		return nil, NewHTTPError(http.StatusBadRequest, "email already used")
	}

	return &RegisterResponse{User: toUserDTO(created)}, nil
}

// Login はbcrypt照合してアクセストークンを返す。
func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err == repo.ErrNotFound {
		//存在有無は漏らさない
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	_ = u.users.UpdateLastLoginAt(ctx, user.ID)

	return &LoginResponse{
		User: toUserDTO(user),
		Token: TokenDTO{
			AccessToken: token,
			ExpiresIn:   int(accessTokenTTL.Seconds()),
		},
	}, nil
}

func (u *AuthUsecase) issueAccessToken(user model.User) (string, error) {
	now := time.Now()

	var hubID int64 = 0
	if user.HubID != nil {
		hubID = *user.HubID
	}

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"hub":  hubID,
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(u.cfg.JWTSecret))
}
