package postgres

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/trailhead"
	"gorm.io/gorm"
)

// Migration pairs a unique key with the function applying it.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
	})
}

// MigrateUp runs, in order, the migrations whose keys the migrations table does not yet record.
func MigrateUp(db *gorm.DB, migrations []Migration) error {
	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: cannot create migrations table: %s", trailhead.ErrUnexpected, err)
	}

	var ran []string
	if err := db.Table("migrations").Pluck("key", &ran).Error; err != nil {
		return fmt.Errorf("%w: cannot fetch ran migrations: %s", trailhead.ErrUnexpected, err)
	}

	for _, m := range Pending(migrations, ran) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %s failed: %s", trailhead.ErrUnexpected, m.Key, err)
		}
	}

	return nil
}

// Pending filters migrations down to those whose key is not in ran, keeping their order.
func Pending(migrations []Migration, ran []string) []Migration {
	done := make(map[string]bool, len(ran))
	for _, k := range ran {
		done[k] = true
	}

	var todo []Migration
	for _, m := range migrations {
		if !done[m.Key] {
			todo = append(todo, m)
		}
	}

	return todo
}
