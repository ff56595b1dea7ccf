package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/user/vidtube/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("repository: conflict")
)

// InitDB opens the Postgres connection pool.
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := Open(postgres.Open(databaseURL))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Open wraps gorm.Open with the settings every caller shares.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}

// Repositories groups every repository.
type Repositories struct {
	DB           *gorm.DB
	User         *UserRepository
	Video        *VideoRepository
	Subscription *SubscriptionRepository
	Like         *LikeRepository
	Comment      *CommentRepository
	Tweet        *TweetRepository
	Playlist     *PlaylistRepository
	History      *HistoryRepository
}

// NewRepositories builds every repository over db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:           db,
		User:         NewUserRepository(db),
		Video:        NewVideoRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Like:         NewLikeRepository(db),
		Comment:      NewCommentRepository(db),
		Tweet:        NewTweetRepository(db),
		Playlist:     NewPlaylistRepository(db),
		History:      NewHistoryRepository(db),
	}
}
