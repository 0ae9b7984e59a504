// Package shared wires the services used by both apps.
package shared

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
	"github.com/trezcool/proctor/core/auth"
	"github.com/trezcool/proctor/core/bot"
	"github.com/trezcool/proctor/core/classroom"
	"github.com/trezcool/proctor/core/course"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/overview"
	"github.com/trezcool/proctor/core/user"
	inmemdb "github.com/trezcool/proctor/storage/inmem"
	remoterepos "github.com/trezcool/proctor/storage/remote"
)

type (
	Deps struct {
		Conf   *core.Config
		Logger core.Logger
		// Sessions receives the sessions issued by login and refresh.
		Sessions auth.Sessions
		// Tokens is consulted when a call's context carries no token. May be nil.
		Tokens client.TokenSource
	}

	Services struct {
		Auth       *auth.Service
		Users      *user.Service
		Courses    *course.Service
		Classrooms *classroom.Service
		Exams      *exam.Service
		Audit      *audit.Service
		Alerts     *alert.Service
		Bot        *bot.Service
		Overview   *overview.Service

		Validate   *validator.Validate
		Translator ut.Translator
	}

	repositories struct {
		auth      auth.Repository
		user      user.Repository
		course    course.Repository
		classroom classroom.Repository
		exam      exam.Repository
		audit     audit.Repository
		alert     alert.Repository
		bot       bot.Repository
	}
)

// NewServices builds the services over the mock backend in mock mode, over the REST API otherwise.
func NewServices(deps Deps) (*Services, error) {
	var (
		repos repositories
		err   error
	)
	if deps.Conf.API.MockMode {
		repos, err = mockRepositories(deps)
	} else {
		repos, err = remoteRepositories(deps)
	}
	if err != nil {
		return nil, err
	}

	validate, translator := NewValidator()
	return &Services{
		Auth:       auth.NewService(repos.auth, deps.Sessions, validate, translator),
		Users:      user.NewService(repos.user, validate, translator),
		Courses:    course.NewService(repos.course, validate, translator),
		Classrooms: classroom.NewService(repos.classroom, validate, translator),
		Exams:      exam.NewService(repos.exam, validate, translator),
		Audit:      audit.NewService(repos.audit, translator),
		Alerts:     alert.NewService(repos.alert, validate, translator),
		Bot:        bot.NewService(repos.bot, validate, translator),
		Overview:   overview.NewService(repos.user, repos.exam, repos.alert, translator),
		Validate:   validate,
		Translator: translator,
	}, nil
}

func mockRepositories(deps Deps) (repositories, error) {
	var opts []inmemdb.Option
	if deps.Tokens != nil {
		opts = append(opts, inmemdb.WithTokenSource(deps.Tokens))
	}
	db, err := inmemdb.Open(deps.Conf.Mock, opts...)
	if err != nil {
		return repositories{}, errors.Wrap(err, "opening mock backend")
	}
	if deps.Logger != nil {
		deps.Logger.Warn("mock mode: using the in-memory backend", map[string]interface{}{"demo_password": inmemdb.DemoPassword})
	}
	return repositories{
		auth:      inmemdb.NewAuthRepository(db),
		user:      inmemdb.NewUserRepository(db),
		course:    inmemdb.NewCourseRepository(db),
		classroom: inmemdb.NewClassroomRepository(db),
		exam:      inmemdb.NewExamRepository(db),
		audit:     inmemdb.NewAuditRepository(db),
		alert:     inmemdb.NewAlertRepository(db),
		bot:       inmemdb.NewBotRepository(db),
	}, nil
}

func remoteRepositories(deps Deps) (repositories, error) {
	opts := []client.Option{
		client.WithTimeout(deps.Conf.API.Timeout),
		client.WithUserAgent(deps.Conf.AppName + "/" + deps.Conf.Build),
	}
	if deps.Tokens != nil {
		opts = append(opts, client.WithTokenSource(deps.Tokens))
	}
	if deps.Logger != nil {
		opts = append(opts, client.WithLogger(deps.Logger))
	}
	c, err := client.New(deps.Conf.API.BaseURL, opts...)
	if err != nil {
		return repositories{}, errors.Wrap(err, "creating api client")
	}
	repos := remoterepos.New(c)
	return repositories{
		auth:      repos.Auth(),
		user:      repos.Users(),
		course:    repos.Courses(),
		classroom: repos.Classrooms(),
		exam:      repos.Exams(),
		audit:     repos.Audit(),
		alert:     repos.Alerts(),
		bot:       repos.Bot(),
	}, nil
}
