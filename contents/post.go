package contents

import (
	"context"
	"fmt"
)

type Post struct {
	ID       int
	Title    string
	Body     string
	Category string
	Date     string
}

type PostRepository interface {
	List(ctx context.Context) (posts []*Post, err error)
	Find(ctx context.Context, postID int) (post *Post, err error)
	FindByTitle(ctx context.Context, title string) (post *Post, err error)
	MaxID(ctx context.Context) (maxID int, err error)
	Insert(ctx context.Context, post *Post) (err error)
	Update(ctx context.Context, post *Post) (err error)
	Delete(ctx context.Context, postID int) (err error)
	Search(ctx context.Context, term string) (posts []*Post, err error)
}

type PostNotFoundError struct {
	ID int
}

func (err PostNotFoundError) Error() string {
	return fmt.Sprintf("post with id %d not found", err.ID)
}

type PostByTitleNotFoundError struct {
	Title string
}

func (err PostByTitleNotFoundError) Error() string {
	return fmt.Sprintf("post with title %q not found", err.Title)
}

type DuplicateTitleError struct {
	Title string
}

func (err DuplicateTitleError) Error() string {
	return fmt.Sprintf("post with title %q already exists", err.Title)
}

// InvalidInputError reports the first required field missing from a post payload.
type InvalidInputError struct {
	Field string
}

func (err InvalidInputError) Error() string {
	return fmt.Sprintf("post %s is required", err.Field)
}
