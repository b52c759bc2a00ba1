package session

import (
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/trailhead/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// A SessionRecord is a session payload stored in the sessions table.
type SessionRecord struct {
	ID        string `gorm:"primaryKey"`
	Data      string
	ExpiresAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (SessionRecord) TableName() string { return "sessions" }

// Migrations creates the table the database driver stores sessions in.
var Migrations = []postgres.Migration{
	{
		Key:      "trailhead_create_sessions",
		Executor: func(tx *gorm.DB) error { return tx.AutoMigrate(new(SessionRecord)) },
	},
}

// GormStore stores sessions in a database through GORM.
// The cookie carries only the signed session ID.
type GormStore struct {
	Codecs  []securecookie.Codec
	Options *gorilla.Options

	db *gorm.DB
}

// NewGormStore constructs a *GormStore over db, signing and encrypting with keyPairs
// as gorilla.NewCookieStore does.
func NewGormStore(db *gorm.DB, keyPairs ...[]byte) *GormStore {
	return &GormStore{
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		Options: &gorilla.Options{Path: "/", MaxAge: defaultLifetime * 60, HttpOnly: true},
		db:      db,
	}
}

// Get returns the session name names for r, cached in r's registry.
func (s *GormStore) Get(r *http.Request, name string) (*gorilla.Session, error) {
	return gorilla.GetRegistry(r).Get(s, name)
}

// New loads the session r's cookie points to, or returns a new one.
func (s *GormStore) New(r *http.Request, name string) (*gorilla.Session, error) {
	sess := gorilla.NewSession(s, name)
	opts := *s.Options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}

	if err := securecookie.DecodeMulti(name, c.Value, &sess.ID, s.Codecs...); err != nil {
		return sess, err
	}

	var rec SessionRecord
	err = s.db.WithContext(r.Context()).
		Where("id = ? AND expires_at > ?", sess.ID, time.Now()).
		First(&rec).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.ID = ""
		return sess, nil
	}
	if err != nil {
		return sess, fmt.Errorf("cannot load session: %w", err)
	}

	if err := securecookie.DecodeMulti(name, rec.Data, &sess.Values, s.Codecs...); err != nil {
		return sess, err
	}
	sess.IsNew = false

	return sess, nil
}

// Save writes sess to the database and its ID to the response's cookie.
// A negative MaxAge deletes both.
func (s *GormStore) Save(r *http.Request, w http.ResponseWriter, sess *gorilla.Session) error {
	db := s.db.WithContext(r.Context())

	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := db.Delete(&SessionRecord{ID: sess.ID}).Error; err != nil {
				return fmt.Errorf("cannot delete session: %w", err)
			}
		}

		http.SetCookie(w, gorilla.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	data, err := securecookie.EncodeMulti(sess.Name(), sess.Values, s.Codecs...)
	if err != nil {
		return err
	}

	rec := SessionRecord{
		ID:        sess.ID,
		Data:      data,
		ExpiresAt: time.Now().Add(time.Duration(sess.Options.MaxAge) * time.Second),
	}
	err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("cannot save session: %w", err)
	}

	id, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gorilla.NewCookie(sess.Name(), id, sess.Options))

	return nil
}
