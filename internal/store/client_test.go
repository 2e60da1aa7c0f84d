package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beesaferoot/gorm-blog/internal/config"
	"github.com/beesaferoot/gorm-blog/internal/database"
	"github.com/beesaferoot/gorm-blog/internal/schema"
	"github.com/beesaferoot/gorm-blog/internal/store"
)

func setupTestClient(t *testing.T) *store.Client {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          ":memory:",
		MaxOpenConns: 1,
	}, zerolog.Nop())
	require.NoError(t, err)

	_, err = schema.NewMigrator(db).Up()
	require.NoError(t, err)

	client := store.New(db)
	t.Cleanup(func() {
		assert.NoError(t, client.Close())
	})
	return client
}

func strPtr(s string) *string {
	return &s
}

func createInput(email string) store.CreateAuthorInput {
	return store.CreateAuthorInput{
		Name:        strPtr("hoplin2"),
		Email:       email,
		PostTitle:   "example-title",
		PostContent: "example-content",
	}
}

func TestCreateAuthorWithPost(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	author, err := client.CreateAuthorWithPost(ctx, createInput("a@b.com"))
	require.NoError(t, err)

	assert.NotZero(t, author.ID)
	assert.Equal(t, "a@b.com", author.Email)
	require.NotNil(t, author.Name)
	assert.Equal(t, "hoplin2", *author.Name)
	require.Len(t, author.Posts, 1)
	assert.NotZero(t, author.Posts[0].ID)
	assert.Equal(t, author.ID, author.Posts[0].AuthorID)
	assert.Equal(t, "example-title", author.Posts[0].Title)
}

func TestCreateAuthorWithPost_NoName(t *testing.T) {
	client := setupTestClient(t)

	in := createInput("anon@example.com")
	in.Name = nil

	author, err := client.CreateAuthorWithPost(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, author.Name)
}

func TestCreateAuthorWithPost_DuplicateEmail(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	_, err := client.CreateAuthorWithPost(ctx, createInput("dup@example.com"))
	require.NoError(t, err)

	_, err = client.CreateAuthorWithPost(ctx, createInput("dup@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrConstraintViolation)

	// the failed create must not leave an orphan post behind
	posts, err := client.FindPostsWithAuthor(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestCreateAuthorWithPost_InvalidInput(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   store.CreateAuthorInput
	}{
		{"missing email", store.CreateAuthorInput{PostTitle: "t", PostContent: "c"}},
		{"malformed email", store.CreateAuthorInput{Email: "not-an-email", PostTitle: "t", PostContent: "c"}},
		{"missing title", store.CreateAuthorInput{Email: "a@b.com", PostContent: "c"}},
		{"missing content", store.CreateAuthorInput{Email: "a@b.com", PostTitle: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateAuthorWithPost(ctx, tt.in)
			assert.ErrorIs(t, err, store.ErrInvalidInput)
		})
	}
}

func TestFindPostsWithAuthor_Empty(t *testing.T) {
	client := setupTestClient(t)

	posts, err := client.FindPostsWithAuthor(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestFindPostsWithAuthor(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	_, err := client.CreateAuthorWithPost(ctx, createInput("a@b.com"))
	require.NoError(t, err)

	posts, err := client.FindPostsWithAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "example-title", posts[0].Title)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "a@b.com", posts[0].Author.Email)
}

func TestFindPostsWithAuthor_Ordered(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	emails := []string{"one@example.com", "two@example.com", "three@example.com"}
	for _, email := range emails {
		_, err := client.CreateAuthorWithPost(ctx, createInput(email))
		require.NoError(t, err)
	}

	posts, err := client.FindPostsWithAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, posts, len(emails))
	for i, post := range posts {
		require.NotNil(t, post.Author)
		assert.Equal(t, emails[i], post.Author.Email)
		if i > 0 {
			assert.Greater(t, post.ID, posts[i-1].ID)
		}
	}
}

func TestUpdateAuthorEmail(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	created, err := client.CreateAuthorWithPost(ctx, createInput("old@example.com"))
	require.NoError(t, err)

	updated, err := client.UpdateAuthorEmail(ctx, "old@example.com", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "new@example.com", updated.Email)

	posts, err := client.FindPostsWithAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "new@example.com", posts[0].Author.Email)
}

func TestUpdateAuthorEmail_NotFound(t *testing.T) {
	client := setupTestClient(t)

	_, err := client.UpdateAuthorEmail(context.Background(), "missing@example.com", "new@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateAuthorEmail_Taken(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	_, err := client.CreateAuthorWithPost(ctx, createInput("first@example.com"))
	require.NoError(t, err)
	_, err = client.CreateAuthorWithPost(ctx, createInput("second@example.com"))
	require.NoError(t, err)

	_, err = client.UpdateAuthorEmail(ctx, "first@example.com", "second@example.com")
	assert.ErrorIs(t, err, store.ErrConstraintViolation)
}

func TestDeleteAuthorByEmail(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	created, err := client.UpsertAuthorByEmail(ctx, "gone@example.com", "unused@example.com")
	require.NoError(t, err)

	deleted, err := client.DeleteAuthorByEmail(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "gone@example.com", deleted.Email)

	_, err = client.DeleteAuthorByEmail(ctx, "gone@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAuthorByEmail_NotFound(t *testing.T) {
	client := setupTestClient(t)

	_, err := client.DeleteAuthorByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAuthorByEmail_OwnsPosts(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	_, err := client.CreateAuthorWithPost(ctx, createInput("writer@example.com"))
	require.NoError(t, err)

	_, err = client.DeleteAuthorByEmail(ctx, "writer@example.com")
	assert.ErrorIs(t, err, store.ErrConstraintViolation)

	posts, err := client.FindPostsWithAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "writer@example.com", posts[0].Author.Email)
}

func TestUpsertAuthorByEmail(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	created, err := client.UpsertAuthorByEmail(ctx, "x@example.com", "y@example.com")
	require.NoError(t, err)
	assert.Equal(t, "x@example.com", created.Email)
	assert.Nil(t, created.Name)
	assert.Empty(t, created.Posts)

	updated, err := client.UpsertAuthorByEmail(ctx, "x@example.com", "y@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "y@example.com", updated.Email)

	posts, err := client.FindPostsWithAuthor(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestUpsertAuthorByEmail_Taken(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	_, err := client.UpsertAuthorByEmail(ctx, "x@example.com", "unused@example.com")
	require.NoError(t, err)
	_, err = client.UpsertAuthorByEmail(ctx, "y@example.com", "unused@example.com")
	require.NoError(t, err)

	_, err = client.UpsertAuthorByEmail(ctx, "x@example.com", "y@example.com")
	assert.ErrorIs(t, err, store.ErrConstraintViolation)
}

func TestClose_Twice(t *testing.T) {
	client := setupTestClient(t)

	require.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}

func TestClose_Concurrent(t *testing.T) {
	client := setupTestClient(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Close()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
