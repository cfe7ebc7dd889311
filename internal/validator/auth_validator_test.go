package validator_test

import (
	"context"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"
	"marketplace/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

func (m *userRepoMock) UpdateLastLoginAt(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type hubRepoMock struct{ mock.Mock }

func (m *hubRepoMock) List(ctx context.Context) ([]model.DistributionHub, error) {
	args := m.Called(ctx)
	hubs, _ := args.Get(0).([]model.DistributionHub)
	return hubs, args.Error(1)
}

func (m *hubRepoMock) FindByID(ctx context.Context, id int64) (model.DistributionHub, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(model.DistributionHub)
	return h, args.Error(1)
}

func (m *hubRepoMock) Create(ctx context.Context, hub model.DistributionHub) (model.DistributionHub, error) {
	args := m.Called(ctx, hub)
	created, _ := args.Get(0).(model.DistributionHub)
	return created, args.Error(1)
}

func (m *hubRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func baseRequest(role string) usecase.RegisterRequest {
	return usecase.RegisterRequest{
		Email:       "a@example.com",
		Password:    "password123",
		Role:        role,
		ProfileName: "Taro",
		Address:     "Tokyo 1-2-3",
	}
}

func TestValidateRegister_Customer(t *testing.T) {
	users := new(userRepoMock)
	hubs := new(hubRepoMock)
	v := validator.NewAuthValidator(users, hubs)

	users.On("FindByEmail", mock.Anything, "a@example.com").
		Return(model.User{}, repo.ErrNotFound)

	err := v.ValidateRegister(context.Background(), baseRequest("CUSTOMER"))
	assert.NoError(t, err)
}

func TestValidateRegister_CustomerNeedsAddress(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock), new(hubRepoMock))

	req := baseRequest("CUSTOMER")
	req.Address = "  "
	err := v.ValidateRegister(context.Background(), req)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestValidateRegister_ShortPassword(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock), new(hubRepoMock))

	req := baseRequest("CUSTOMER")
	req.Password = "short"
	err := v.ValidateRegister(context.Background(), req)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestValidateRegister_BadEmail(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock), new(hubRepoMock))

	req := baseRequest("CUSTOMER")
	req.Email = "not-an-email"
	err := v.ValidateRegister(context.Background(), req)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestValidateRegister_UnknownRole(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock), new(hubRepoMock))

	err := v.ValidateRegister(context.Background(), baseRequest("ADMIN"))
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestValidateRegister_ShipperNeedsExistingHub(t *testing.T) {
	users := new(userRepoMock)
	hubs := new(hubRepoMock)
	v := validator.NewAuthValidator(users, hubs)

	req := baseRequest("SHIPPER")
	req.HubID = 99
	hubs.On("FindByID", mock.Anything, int64(99)).
		Return(model.DistributionHub{}, repo.ErrNotFound)

	err := v.ValidateRegister(context.Background(), req)
	assert.ErrorIs(t, err, usecase.ErrUnknownHub)
}

func TestValidateRegister_DuplicateEmail(t *testing.T) {
	users := new(userRepoMock)
	hubs := new(hubRepoMock)
	v := validator.NewAuthValidator(users, hubs)

	users.On("FindByEmail", mock.Anything, "a@example.com").
		Return(model.User{ID: 1}, nil)

	err := v.ValidateRegister(context.Background(), baseRequest("CUSTOMER"))
	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyUsed)
}

func TestValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock), new(hubRepoMock))

	assert.NoError(t, v.ValidateLogin(context.Background(), "a@example.com", "password123"))
	assert.Error(t, v.ValidateLogin(context.Background(), "", "password123"))
	assert.Error(t, v.ValidateLogin(context.Background(), "a@example.com", ""))
	assert.Error(t, v.ValidateLogin(context.Background(), "bad-email", "password123"))
}
