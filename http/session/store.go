package session

import (
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/boj/redistore"
	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/postgres"
	"gorm.io/gorm"
)

const (
	DriverCookie   = "cookie"
	DriverDatabase = "database"
	DriverFile     = "file"
	DriverRedis    = "redis"

	defaultLifetime = 60 // minutes
)

// A Config provides the values drivers are built from.
type Config struct {
	Env trailhead.Environment

	// The name sessions are stored under; also the cookie's name.
	Name string

	// Minutes a session stays valid.
	Lifetime int

	// Directory the file driver writes to.
	Path string

	// Address of the redis server, or URL of the database, for those drivers.
	Connection string

	// Password for the redis server.
	Password string

	// Hex-encoded key
	AuthKey string

	// Hex-encoded key
	EncryptKey string

	// DB backs the database driver when set, instead of connecting to Connection.
	DB *gorm.DB
}

func validateConfig(c Config) error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: %s", trailhead.ErrBadConfig, err)
	}

	if c.Name == "" {
		return fmt.Errorf("%w: Name cannot be %q", trailhead.ErrBadConfig, c.Name)
	}

	return nil
}

// A Service builds, on first use, and keeps the gorilla.Store backing each driver.
// A Service is safe for concurrent use.
type Service struct {
	// The authentication key.
	ak []byte

	// The encryption key.
	ek []byte

	cfg    Config
	maxAge int

	mu     sync.Mutex
	stores map[string]gorilla.Store
}

// NewService validates cfg and decodes its keys.
// No driver is built until a Manager starts it.
func NewService(cfg Config) (*Service, error) {
	var err error
	gob.Register(Flash{})

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}

	s := &Service{
		cfg:    cfg,
		maxAge: lifetime * 60,
		stores: make(map[string]gorilla.Store),
	}

	s.ak, err = hex.DecodeString(cfg.AuthKey)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication key is not valid: %s", trailhead.ErrBadConfig, err)
	}

	s.ek, err = hex.DecodeString(cfg.EncryptKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption key is not valid: %s", trailhead.ErrBadConfig, err)
	}

	return s, nil
}

// Name returns the name sessions are stored under.
func (s *Service) Name() string { return s.cfg.Name }

// MaxAge returns the number of seconds a session is valid.
func (s *Service) MaxAge() int { return s.maxAge }

// Store returns the gorilla.Store backing driver, building it on first use.
func (s *Service) Store(driver string) (gorilla.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores[driver]; ok {
		return st, nil
	}

	var (
		st  gorilla.Store
		err error
	)
	switch driver {
	case DriverCookie:
		st = s.cookieStore()
	case DriverFile:
		st, err = s.fileStore()
	case DriverRedis:
		st, err = s.redisStore()
	case DriverDatabase:
		st, err = s.gormStore()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s driver: %s", trailhead.ErrBadConfig, driver, err)
	}

	s.stores[driver] = st

	return st, nil
}

// keyPairs returns the keys stores sign, and outside of testing encrypt, sessions with.
func (s *Service) keyPairs() [][]byte {
	if s.cfg.Env.IsTesting() || len(s.ek) == 0 {
		return [][]byte{s.ak}
	}

	return [][]byte{s.ak, s.ek}
}

func (s *Service) options(o *gorilla.Options) {
	o.Path = "/"
	o.Secure = s.cfg.Env.SecureCookies()
	o.HttpOnly = true
	o.MaxAge = s.maxAge
}

func (s *Service) cookieStore() gorilla.Store {
	c := gorilla.NewCookieStore(s.keyPairs()...)
	s.options(c.Options)
	c.MaxAge(s.maxAge)

	return c
}

func (s *Service) fileStore() (gorilla.Store, error) {
	dir := s.cfg.Path
	if dir == "" {
		dir = os.TempDir()
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	f := gorilla.NewFilesystemStore(dir, s.keyPairs()...)
	s.options(f.Options)
	f.MaxAge(s.maxAge)

	// Payloads larger than a cookie fit on disk.
	f.MaxLength(0)

	return f, nil
}

func (s *Service) redisStore() (gorilla.Store, error) {
	r, err := redistore.NewRediStore(10, "tcp", s.cfg.Connection, s.cfg.Password, s.keyPairs()...)
	if err != nil {
		return nil, err
	}

	s.options(r.Options)
	r.SetMaxAge(s.maxAge)

	return r, nil
}

func (s *Service) gormStore() (gorilla.Store, error) {
	db := s.cfg.DB
	if db == nil {
		var err error
		db, err = postgres.Connect(&postgres.CxnConfig{URL: s.cfg.Connection}, Migrations, s.cfg.Env)
		if err != nil {
			return nil, err
		}
	}

	g := NewGormStore(db, s.keyPairs()...)
	s.options(g.Options)

	return g, nil
}
