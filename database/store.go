package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/student-records/config"
	"github.com/yeremiapane/student-records/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Opener opens one short-lived store per request. It is safe for concurrent use.
type Opener struct {
	cfg      config.DatabaseConfig
	log      *logrus.Logger
	validate *validator.Validate
}

func NewOpener(cfg config.DatabaseConfig, log *logrus.Logger) *Opener {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Opener{
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
	}
}

// Store is a single open connection to the records table.
type Store struct {
	db       *gorm.DB
	timeout  time.Duration
	validate *validator.Validate
}

func (o *Opener) dialector() (gorm.Dialector, error) {
	switch o.cfg.Driver {
	case "", "sqlite":
		return sqlite.Open(o.cfg.DSN), nil
	case "mysql":
		return mysql.Open(o.cfg.DSN), nil
	case "postgres":
		return postgres.Open(o.cfg.DSN), nil
	}
	return nil, fmt.Errorf("unsupported driver %q", o.cfg.Driver)
}

// Open connects, makes sure the users table exists and returns the store.
// The caller must Close it; prefer WithStore.
func (o *Opener) Open(ctx context.Context) (*Store, error) {
	dialector, err := o.dialector()
	if err != nil {
		return nil, &Error{Op: "open", Kind: ErrConnection, Err: err}
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(o.log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		if db != nil {
			if sqlDB, derr := db.DB(); derr == nil {
				_ = sqlDB.Close()
			}
		}
		return nil, &Error{Op: "open", Kind: ErrConnection, Err: err}
	}

	st := &Store{db: db, timeout: o.cfg.Timeout, validate: o.validate}

	if o.cfg.Driver == "" || o.cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, &Error{Op: "open", Kind: ErrConnection, Err: err}
		}
		// Pragmas are per connection, so keep exactly one.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
			_ = st.Close()
			return nil, &Error{Op: "open", Kind: ErrConnection, Err: err}
		}
	}

	if err := st.ensureSchema(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// WithStore opens a store, runs fn and closes the store on every exit path.
func WithStore(ctx context.Context, o *Opener, fn func(*Store) error) error {
	st, err := o.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			o.log.WithError(cerr).Warn("close store")
		}
	}()
	return fn(st)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// ensureSchema creates the users table when it is missing.
func (s *Store) ensureSchema(ctx context.Context) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	m := db.Migrator()
	if m.HasTable(&models.User{}) {
		return nil
	}
	if err := m.CreateTable(&models.User{}); err != nil {
		// Another request may have created it first.
		if m.HasTable(&models.User{}) {
			return nil
		}
		return &Error{Op: "ensure schema", Kind: ErrConnection, Err: err}
	}
	return nil
}

// Ping reports whether the underlying database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("ping", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return &Error{Op: "ping", Kind: ErrConnection, Err: err}
	}
	return nil
}

func (s *Store) validateRecord(op string, u models.User) error {
	if err := s.validate.Struct(u); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &Error{Op: op, Kind: ErrValidation, Err: err}
		}
		return wrap(op, err)
	}
	return nil
}

// Insert stores a new record and returns it with its assigned id.
func (s *Store) Insert(ctx context.Context, in models.User) (*models.User, error) {
	if err := s.validateRecord("insert", in); err != nil {
		return nil, err
	}
	db, cancel := s.conn(ctx)
	defer cancel()

	u := models.User{
		Name:    in.Name,
		Roll:    in.Roll,
		Branch:  in.Branch,
		College: in.College,
		Email:   in.Email,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, wrap("insert", err)
	}
	return &u, nil
}

// FetchAll returns every record in insertion order.
func (s *Store) FetchAll(ctx context.Context) ([]models.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return nil, wrap("fetch all", err)
	}
	return users, nil
}

func (s *Store) FetchOne(ctx context.Context, id int64) (*models.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		return nil, wrap("fetch one", err)
	}
	return &u, nil
}

// Update overwrites all five fields of record id. A missing id yields
// ErrNotFound and leaves the table untouched.
func (s *Store) Update(ctx context.Context, id int64, in models.User) error {
	if err := s.validateRecord("update", in); err != nil {
		return err
	}
	db, cancel := s.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"name":    in.Name,
			"roll":    in.Roll,
			"branch":  in.Branch,
			"college": in.College,
			"email":   in.Email,
		}).Error
	})
	return wrap("update", err)
}

// Delete removes record id. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	return wrap("delete", db.Delete(&models.User{}, id).Error)
}
