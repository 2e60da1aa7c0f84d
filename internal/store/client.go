// Package store is the data-access client for authors and their posts.
//
// A Client owns one open connection pool. Every operation runs as a single
// transaction and returns plain model values; errors wrap one of
// ErrConstraintViolation, ErrNotFound, ErrConnectivity or ErrInvalidInput.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-blog/internal/config"
	"github.com/beesaferoot/gorm-blog/internal/database"
	"github.com/beesaferoot/gorm-blog/internal/models"
)

type Client struct {
	db       *gorm.DB
	validate *validator.Validate
	once     sync.Once
	closeErr error
}

// New wraps an already opened database handle.
func New(db *gorm.DB) *Client {
	return &Client{
		db:       db,
		validate: validator.New(),
	}
}

// Open connects to the configured database and verifies it is reachable.
func Open(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*Client, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open: %w: %w", ErrConnectivity, err)
	}

	c := New(db)
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// DB exposes the underlying handle for schema management.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Ping checks that the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("ping: %w: %w", ErrConnectivity, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", ErrConnectivity, err)
	}
	return nil
}

// Close releases the connection pool. Later calls return the first result.
func (c *Client) Close() error {
	c.once.Do(func() {
		c.closeErr = database.Close(c.db)
	})
	return c.closeErr
}

// CreateAuthorInput describes a new author together with their first post.
type CreateAuthorInput struct {
	Name        *string
	Email       string `validate:"required,email"`
	PostTitle   string `validate:"required"`
	PostContent string `validate:"required"`
}

// CreateAuthorWithPost inserts an author and one post in a single
// transaction. The returned author has the new post in Posts.
func (c *Client) CreateAuthorWithPost(ctx context.Context, in CreateAuthorInput) (*models.Author, error) {
	const op = "create author"
	if err := c.check(op, in); err != nil {
		return nil, err
	}

	author := &models.Author{
		Name:  in.Name,
		Email: in.Email,
		Posts: []models.Post{
			{Title: in.PostTitle, Content: in.PostContent},
		},
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(author).Error
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return author, nil
}

// FindPostsWithAuthor returns every post with its author, ordered by id.
func (c *Client) FindPostsWithAuthor(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Author").Order("id").Find(&posts).Error
	})
	if err != nil {
		return nil, classify("find posts", err)
	}
	return posts, nil
}

type emailChange struct {
	Current string `validate:"required"`
	New     string `validate:"required,email"`
}

// UpdateAuthorEmail changes the email of the author keyed by currentEmail.
func (c *Client) UpdateAuthorEmail(ctx context.Context, currentEmail, newEmail string) (*models.Author, error) {
	const op = "update author"
	if err := c.check(op, emailChange{Current: currentEmail, New: newEmail}); err != nil {
		return nil, err
	}

	var author models.Author
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", currentEmail).First(&author).Error; err != nil {
			return err
		}
		if err := tx.Model(&author).Update("email", newEmail).Error; err != nil {
			return err
		}
		return tx.First(&author, author.ID).Error
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return &author, nil
}

type emailKey struct {
	Email string `validate:"required"`
}

// DeleteAuthorByEmail removes the author keyed by email and returns the
// removed record. Authors that still own posts are not deleted.
func (c *Client) DeleteAuthorByEmail(ctx context.Context, email string) (*models.Author, error) {
	const op = "delete author"
	if err := c.check(op, emailKey{Email: email}); err != nil {
		return nil, err
	}

	var author models.Author
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&author).Error; err != nil {
			return err
		}

		var posts int64
		if err := tx.Model(&models.Post{}).Where("author_id = ?", author.ID).Count(&posts).Error; err != nil {
			return err
		}
		if posts > 0 {
			return fmt.Errorf("%w: author %s still owns %d post(s)", ErrConstraintViolation, email, posts)
		}

		return tx.Delete(&author).Error
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return &author, nil
}

type upsertKeys struct {
	Email       string `validate:"required,email"`
	UpdateEmail string `validate:"required,email"`
}

// UpsertAuthorByEmail sets the email of the author keyed by email to
// updateEmail, or creates an author with email when none exists.
func (c *Client) UpsertAuthorByEmail(ctx context.Context, email, updateEmail string) (*models.Author, error) {
	const op = "upsert author"
	if err := c.check(op, upsertKeys{Email: email, UpdateEmail: updateEmail}); err != nil {
		return nil, err
	}

	var author models.Author
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("email = ?", email).Limit(1).Find(&author)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			author = models.Author{Email: email}
			return tx.Create(&author).Error
		}
		if err := tx.Model(&author).Update("email", updateEmail).Error; err != nil {
			return err
		}
		return tx.First(&author, author.ID).Error
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return &author, nil
}

func (c *Client) check(op string, in interface{}) error {
	if err := c.validate.Struct(in); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}
	return nil
}
