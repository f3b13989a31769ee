package user

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("user")
)

type (
	Repository interface {
		// CreateUser assigns a fresh unique ID to user before storing it.
		CreateUser(ctx context.Context, user User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
		log        core.Logger
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator, log core.Logger) *Service {
	return &Service{
		repo:       repo,
		validate:   validate,
		translator: translator,
		log:        log,
	}
}

// Register validates nu and appends a new User.
// A *core.StorageError means the User exists in memory but was not persisted.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate, svc.translator); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(ctx, User{Name: nu.Name, Role: nu.Role})
	if err != nil {
		if core.IsStorage(err) {
			svc.log.Error("user not persisted", err, usr)
			return usr, err
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	svc.log.Info("user registered", usr)
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, core.CleanString(id))
}
