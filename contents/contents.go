package contents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

const (
	FieldTitle    = "title"
	FieldBody     = "body"
	FieldCategory = "category"
	FieldDate     = "date"
)

// Service owns the post collection. Every mutation runs under mu, so the
// uniqueness checks and the write that follows them are atomic.
type Service struct {
	mu       sync.Mutex
	postRepo PostRepository
}

func NewService(postRepo PostRepository) *Service {
	return &Service{
		postRepo: postRepo,
	}
}

type CreatePostRequest struct {
	Title    string
	Body     string
	Category string
	Date     string
}

type UpdatePostRequest struct {
	Title    string
	Body     string
	Category string
	Date     string
}

func (svc *Service) FindAll(ctx context.Context) ([]*Post, error) {
	posts, err := svc.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (svc *Service) FindOne(ctx context.Context, postID int) (*Post, error) {
	post, err := svc.postRepo.Find(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	return post, nil
}

func (svc *Service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	post := &Post{
		ID:       0,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Date:     req.Date,
	}

	err := verify(post)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	err = svc.checkTitleAvailable(ctx, post.Title, 0)
	if err != nil {
		return nil, err
	}

	maxID, err := svc.postRepo.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get max post id: %w", err)
	}

	post.ID = maxID + 1

	err = svc.postRepo.Insert(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (svc *Service) Update(ctx context.Context, postID int, req UpdatePostRequest) (*Post, error) {
	slog.InfoContext(ctx, "updating post", "id", postID)

	post := &Post{
		ID:       postID,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Date:     req.Date,
	}

	err := verify(post)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, err = svc.postRepo.Find(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	err = svc.checkTitleAvailable(ctx, post.Title, postID)
	if err != nil {
		return nil, err
	}

	err = svc.postRepo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

func (svc *Service) Delete(ctx context.Context, postID int) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	err := svc.postRepo.Delete(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func (svc *Service) Search(ctx context.Context, term string) ([]*Post, error) {
	posts, err := svc.postRepo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}

	return posts, nil
}

// checkTitleAvailable fails when a post other than ownerID already uses title.
// Pass 0 as ownerID on create, since stored ids start at 1.
func (svc *Service) checkTitleAvailable(ctx context.Context, title string, ownerID int) error {
	existing, err := svc.postRepo.FindByTitle(ctx, title)
	if err != nil {
		var postByTitleNotFoundErr *PostByTitleNotFoundError
		if errors.As(err, &postByTitleNotFoundErr) {
			return nil
		}

		return fmt.Errorf("failed to check if title already exists: %w", err)
	}

	if existing.ID != ownerID {
		return &DuplicateTitleError{Title: title}
	}

	return nil
}

func verify(post *Post) error {
	switch {
	case post.Title == "":
		return &InvalidInputError{Field: FieldTitle}
	case post.Body == "":
		return &InvalidInputError{Field: FieldBody}
	case post.Category == "":
		return &InvalidInputError{Field: FieldCategory}
	case post.Date == "":
		return &InvalidInputError{Field: FieldDate}
	default:
		return nil
	}
}
