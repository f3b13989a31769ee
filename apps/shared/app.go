package shared

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/assignment"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
	"github.com/trezcool/masomo-lms/storage"
)

// App holds the dependencies shared by the api server and the admin CLI.
type App struct {
	Conf   *core.Config
	Logger core.Logger

	Medium  core.Medium
	Store   *storage.Store
	Session *session.Manager

	Validate   *validator.Validate
	Translator ut.Translator

	UserSvc       *user.Service
	CourseSvc     *course.Service
	AssignmentSvc *assignment.Service
}

// NewLogger builds the app logger: zap, reporting to Rollbar outside of debug mode when a token is set.
// The returned func flushes it.
func NewLogger(conf *core.Config, name string) (*logsvc.RollbarLogger, func(), error) {
	zl, err := logsvc.NewZap(conf.Log, name)
	if err != nil {
		return nil, nil, err
	}
	logger := logsvc.NewRollbarLogger(logsvc.NewZapLogger(zl), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	flush := func() {
		logger.Wait()
		_ = zl.Sync()
	}
	return logger, flush, nil
}

// New opens the configured medium, loads the store and wires the services.
// Corrupt stored data is logged and replaced by the seed state.
func New(ctx context.Context, conf *core.Config, logger core.Logger) (*App, error) {
	medium, err := storage.OpenMedium(conf.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "opening storage")
	}

	store, err := storage.Open(ctx, medium, storage.Options{
		StateKey: conf.Storage.StateKey,
		Quota:    conf.Storage.Quota,
		Logger:   logger,
	})
	if err != nil {
		if !errors.Is(err, core.ErrStorageCorrupt) {
			_ = medium.Close()
			return nil, errors.Wrap(err, "loading store")
		}
		logger.Warn("stored data was corrupt and has been reset", err)
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)

	locks := core.NewKeyedMutex()
	usrSvc := user.NewService(store, validate, translator, logger)

	return &App{
		Conf:          conf,
		Logger:        logger,
		Medium:        medium,
		Store:         store,
		Session:       session.NewManager(medium, conf.Storage.SessionKey, usrSvc, logger),
		Validate:      validate,
		Translator:    translator,
		UserSvc:       usrSvc,
		CourseSvc:     course.NewService(store, locks, validate, translator, logger),
		AssignmentSvc: assignment.NewService(store, store, locks, validate, translator, logger),
	}, nil
}

func (app *App) Close() error {
	return app.Medium.Close()
}
