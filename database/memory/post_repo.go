// Package memory keeps posts in an ordered in-process slice.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/nasermirzaei89/postbook/contents"
)

type PostRepository struct {
	mu    sync.RWMutex
	posts []contents.Post
}

var _ contents.PostRepository = (*PostRepository)(nil)

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make([]contents.Post, 0),
	}
}

func (repo *PostRepository) indexOf(postID int) int {
	for i := range repo.posts {
		if repo.posts[i].ID == postID {
			return i
		}
	}

	return -1
}

func (repo *PostRepository) List(_ context.Context) ([]*contents.Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	posts := make([]*contents.Post, 0, len(repo.posts))

	for _, post := range repo.posts {
		posts = append(posts, &post)
	}

	return posts, nil
}

func (repo *PostRepository) Find(_ context.Context, postID int) (*contents.Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	i := repo.indexOf(postID)
	if i == -1 {
		return nil, &contents.PostNotFoundError{ID: postID}
	}

	post := repo.posts[i]

	return &post, nil
}

func (repo *PostRepository) FindByTitle(_ context.Context, title string) (*contents.Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, post := range repo.posts {
		if post.Title == title {
			return &post, nil
		}
	}

	return nil, &contents.PostByTitleNotFoundError{Title: title}
}

func (repo *PostRepository) MaxID(_ context.Context) (int, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	maxID := 0

	for _, post := range repo.posts {
		maxID = max(maxID, post.ID)
	}

	return maxID, nil
}

func (repo *PostRepository) Insert(_ context.Context, post *contents.Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.posts = append(repo.posts, *post)

	return nil
}

// Update replaces the stored post with the same id, keeping its position.
func (repo *PostRepository) Update(_ context.Context, post *contents.Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	i := repo.indexOf(post.ID)
	if i == -1 {
		return &contents.PostNotFoundError{ID: post.ID}
	}

	repo.posts[i] = *post

	return nil
}

func (repo *PostRepository) Delete(_ context.Context, postID int) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	i := repo.indexOf(postID)
	if i == -1 {
		return &contents.PostNotFoundError{ID: postID}
	}

	repo.posts = append(repo.posts[:i], repo.posts[i+1:]...)

	return nil
}

func (repo *PostRepository) Search(_ context.Context, term string) ([]*contents.Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	posts := make([]*contents.Post, 0)

	for _, post := range repo.posts {
		if strings.Contains(post.Title, term) || strings.Contains(post.Body, term) {
			posts = append(posts, &post)
		}
	}

	return posts, nil
}
