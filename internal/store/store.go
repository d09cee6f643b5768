// Package store persists game-server registrations in SQLite. The client
// layer never touches it; the CLI reads registrations out and constructs
// clients from them.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ServerRegistration is one game server the bot should join.
type ServerRegistration struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"unique;index"`
	Host      string
	Port      int
	Password  string
	Language  string
	CreatedAt time.Time
}

// ErrNotFound is returned when no registration matches the given name.
var ErrNotFound = errors.New("server registration not found")

// Store wraps the SQLite database holding registrations.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&ServerRegistration{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Add inserts a registration. Names are unique; adding a duplicate fails.
func (s *Store) Add(reg *ServerRegistration) error {
	if err := s.db.Create(reg).Error; err != nil {
		return fmt.Errorf("add server %q: %w", reg.Name, err)
	}
	return nil
}

// Get returns the registration with the given name.
func (s *Store) Get(name string) (ServerRegistration, error) {
	var reg ServerRegistration
	err := s.db.Where("name = ?", name).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reg, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return reg, fmt.Errorf("get server %q: %w", name, err)
	}
	return reg, nil
}

// List returns all registrations, oldest first.
func (s *Store) List() ([]ServerRegistration, error) {
	var regs []ServerRegistration
	if err := s.db.Order("created_at").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return regs, nil
}

// Remove deletes the registration with the given name.
func (s *Store) Remove(name string) error {
	res := s.db.Where("name = ?", name).Delete(&ServerRegistration{})
	if res.Error != nil {
		return fmt.Errorf("remove server %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
