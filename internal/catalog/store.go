package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the mission catalog backed by a GORM database.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open wraps an existing GORM connection and migrates the schema.
// Used by tests and by the seed command.
func Open(db *gorm.DB, log zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Mission{}, &Play{}); err != nil {
		return nil, fmt.Errorf("catalog migration: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Connect opens the catalog database: Postgres from the db.* config keys,
// falling back to local SQLite when Postgres is unreachable.
func Connect(log zerolog.Logger) (*Store, error) {
	db, err := openPostgres()
	if err != nil {
		log.Warn().Err(err).Msg("postgres unavailable, falling back to local sqlite")
		db, err = openSqlite(viper.GetString("db.localPath"))
		if err != nil {
			return nil, fmt.Errorf("open local sqlite db: %w", err)
		}
	}
	return Open(db, log)
}

func openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func openSqlite(path string) (*gorm.DB, error) {
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// List returns all active missions ordered by id.
func (s *Store) List() ([]Descriptor, error) {
	var rows []Mission
	if err := s.db.Where("is_active = ?", true).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	out := make([]Descriptor, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.descriptor())
	}
	return out, nil
}

// Detail fetches the full definition of one mission.
func (s *Store) Detail(id uint) (Detail, error) {
	var m Mission
	err := s.db.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Detail{}, fmt.Errorf("mission %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Detail{}, fmt.Errorf("mission %d: %w", id, err)
	}
	return m.detail(), nil
}

// Report records a finished mission attempt. A successful outcome marks the
// mission completed. Failures to persist are wrapped in ErrPersistence so
// the caller can log and move on.
func (s *Store) Report(id uint, outcome string, elapsed time.Duration) error {
	play := Play{
		MissionID: id,
		Outcome:   outcome,
		ElapsedMs: elapsed.Milliseconds(),
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&play).Error; err != nil {
		return fmt.Errorf("record play for mission %d: %w: %v", id, ErrPersistence, err)
	}
	if outcome == "success" {
		if err := s.db.Model(&Mission{}).Where("id = ?", id).Update("completed", true).Error; err != nil {
			return fmt.Errorf("mark mission %d completed: %w: %v", id, ErrPersistence, err)
		}
	}
	return nil
}

// Seed inserts missions that do not already exist, matching by name.
func (s *Store) Seed(missions []Mission) error {
	for _, m := range missions {
		var count int64
		if err := s.db.Model(&Mission{}).Where("name = ?", m.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("seed check %q: %w", m.Name, err)
		}
		if count > 0 {
			continue
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		if err := s.db.Create(&m).Error; err != nil {
			return fmt.Errorf("seed insert %q: %w", m.Name, err)
		}
		s.log.Info().Str("mission", m.Name).Str("difficulty", m.Difficulty).Msg("mission seeded")
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
