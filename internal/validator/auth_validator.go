package validator

import (
	"context"
	"regexp"
	"strings"

	"marketplace/internal/domain/model"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type authValidator struct {
	users repository.UserRepository
	hubs  repository.HubRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository, hubs repository.HubRepository) usecase.AuthValidator {
	return &authValidator{users: users, hubs: hubs}
}

// 登録の入力を検証。役割ごとの必須項目もここで見る。
func (v *authValidator) ValidateRegister(ctx context.Context, req usecase.RegisterRequest) error {
	email := strings.TrimSpace(req.Email)

	// 必須チェック
	if email == "" || req.Password == "" {
		return usecase.ErrInvalidInput
	}
	if !emailPattern.MatchString(email) {
		return usecase.ErrInvalidInput
	}
	// パスワード最低文字数（MVP: 8）
	if len(req.Password) < 8 {
		return usecase.ErrInvalidInput
	}
	if strings.TrimSpace(req.ProfileName) == "" {
		return usecase.ErrInvalidInput
	}

	switch model.Role(req.Role) {
	case model.RoleCustomer:
		//配送先が無いと注文できない
		if strings.TrimSpace(req.Address) == "" {
			return usecase.ErrInvalidInput
		}
	case model.RoleVendor:
		//店舗住所必須
		if strings.TrimSpace(req.Address) == "" {
			return usecase.ErrInvalidInput
		}
	case model.RoleShipper:
		//所属ハブは実在するものだけ
		if req.HubID <= 0 {
			return usecase.ErrInvalidInput
		}
		if _, err := v.hubs.FindByID(ctx, req.HubID); err != nil {
			return usecase.ErrUnknownHub
		}
	default:
		return usecase.ErrInvalidInput
	}

	// email重複チェック（DBが必要）
	if _, err := v.users.FindByEmail(ctx, email); err == nil {
		return usecase.ErrEmailAlreadyUsed
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return usecase.ErrInvalidInput
	}
	if !emailPattern.MatchString(email) {
		return usecase.ErrInvalidInput
	}

	return nil
}
