package memory_test

import (
	"context"
	"testing"

	"github.com/nasermirzaei89/postbook/contents"
	"github.com/nasermirzaei89/postbook/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewPostRepository()

	maxID, err := repo.MaxID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, maxID)

	for _, post := range []*contents.Post{
		{ID: 1, Title: "one", Body: "b1", Category: "c", Date: "d"},
		{ID: 5, Title: "five", Body: "b5", Category: "c", Date: "d"},
		{ID: 3, Title: "three", Body: "b3", Category: "c", Date: "d"},
	} {
		err := repo.Insert(ctx, post)
		require.NoError(t, err)
	}

	t.Run("max id", func(t *testing.T) {
		maxID, err := repo.MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, maxID)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		posts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, 1, posts[0].ID)
		assert.Equal(t, 5, posts[1].ID)
		assert.Equal(t, 3, posts[2].ID)
	})

	t.Run("find by title", func(t *testing.T) {
		post, err := repo.FindByTitle(ctx, "five")
		require.NoError(t, err)
		assert.Equal(t, 5, post.ID)

		_, err = repo.FindByTitle(ctx, "missing")
		postByTitleNotFoundErr := &contents.PostByTitleNotFoundError{}
		require.ErrorAs(t, err, &postByTitleNotFoundErr)
	})

	t.Run("update missing post", func(t *testing.T) {
		err := repo.Update(ctx, &contents.Post{ID: 9, Title: "x", Body: "b", Category: "c", Date: "d"})
		postNotFoundErr := &contents.PostNotFoundError{}
		require.ErrorAs(t, err, &postNotFoundErr)
		assert.Equal(t, 9, postNotFoundErr.ID)
	})
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewPostRepository()

	for _, post := range []*contents.Post{
		{ID: 1, Title: "one", Body: "b", Category: "c", Date: "d"},
		{ID: 2, Title: "two", Body: "b", Category: "c", Date: "d"},
		{ID: 3, Title: "three", Body: "b", Category: "c", Date: "d"},
	} {
		require.NoError(t, repo.Insert(ctx, post))
	}

	require.NoError(t, repo.Delete(ctx, 2))
	require.NoError(t, repo.Update(ctx, &contents.Post{ID: 3, Title: "3", Body: "b", Category: "c", Date: "d"}))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "one", posts[0].Title)
	assert.Equal(t, "3", posts[1].Title)

	err = repo.Delete(ctx, 2)
	postNotFoundErr := &contents.PostNotFoundError{}
	require.ErrorAs(t, err, &postNotFoundErr)
}

func TestPostRepository_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewPostRepository()

	posts, err := repo.Search(ctx, "anything")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	require.NoError(t, repo.Insert(ctx, &contents.Post{ID: 1, Title: "Hello", Body: "x", Category: "c", Date: "d"}))
	require.NoError(t, repo.Insert(ctx, &contents.Post{ID: 2, Title: "World", Body: "x", Category: "c", Date: "d"}))

	posts, err = repo.Search(ctx, "ell")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)

	posts, err = repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
