package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/postbook/contents"
)

const tablePosts = "posts"

type PostRepository struct {
	db *sql.DB
}

var _ contents.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const (
	postFieldID       = "id"
	postFieldTitle    = "title"
	postFieldBody     = "body"
	postFieldCategory = "category"
	postFieldDate     = "date"
)

const uniqueTitleViolation = "UNIQUE constraint failed: posts.title"

func postColumns() []string {
	return []string{
		postFieldID,
		postFieldTitle,
		postFieldBody,
		postFieldCategory,
		postFieldDate,
	}
}

func scanPost(row sq.RowScanner) (*contents.Post, error) {
	var post contents.Post

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.Category,
		&post.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &post, nil
}

func (repo *PostRepository) queryPosts(ctx context.Context, q sq.SelectBuilder) ([]*contents.Post, error) {
	q = q.RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	posts := make([]*contents.Post, 0)

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		posts = append(posts, post)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return posts, nil
}

// List orders by id, which matches insertion order since new ids always exceed the current max.
func (repo *PostRepository) List(ctx context.Context) ([]*contents.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		OrderBy(postFieldID)

	return repo.queryPosts(ctx, q)
}

func (repo *PostRepository) Find(ctx context.Context, postID int) (*contents.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	row := q.QueryRowContext(ctx)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &contents.PostNotFoundError{ID: postID}
		}

		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return post, nil
}

func (repo *PostRepository) FindByTitle(ctx context.Context, title string) (*contents.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldTitle: title})

	q = q.RunWith(repo.db)

	row := q.QueryRowContext(ctx)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &contents.PostByTitleNotFoundError{Title: title}
		}

		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return post, nil
}

func (repo *PostRepository) MaxID(ctx context.Context) (int, error) {
	q := sq.Select("COALESCE(MAX(" + postFieldID + "), 0)").
		From(tablePosts)

	q = q.RunWith(repo.db)

	var maxID int

	err := q.QueryRowContext(ctx).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to scan max id: %w", err)
	}

	return maxID, nil
}

func (repo *PostRepository) Insert(ctx context.Context, post *contents.Post) error {
	q := sq.Insert(tablePosts).
		Columns(postColumns()...).
		Values(post.ID, post.Title, post.Body, post.Category, post.Date)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		if strings.Contains(err.Error(), uniqueTitleViolation) {
			return &contents.DuplicateTitleError{Title: post.Title}
		}

		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *PostRepository) Update(ctx context.Context, post *contents.Post) error {
	q := sq.Update(tablePosts).
		SetMap(map[string]any{
			postFieldTitle:    post.Title,
			postFieldBody:     post.Body,
			postFieldCategory: post.Category,
			postFieldDate:     post.Date,
		}).
		Where(sq.Eq{postFieldID: post.ID})

	q = q.RunWith(repo.db)

	res, err := q.ExecContext(ctx)
	if err != nil {
		if strings.Contains(err.Error(), uniqueTitleViolation) {
			return &contents.DuplicateTitleError{Title: post.Title}
		}

		return fmt.Errorf("failed to exec update: %w", err)
	}

	return checkAffected(res, post.ID)
}

func (repo *PostRepository) Delete(ctx context.Context, postID int) error {
	q := sq.Delete(tablePosts).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec delete: %w", err)
	}

	return checkAffected(res, postID)
}

// Search uses instr rather than LIKE, which is case-insensitive for ASCII in SQLite.
func (repo *PostRepository) Search(ctx context.Context, term string) ([]*contents.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Or{
			sq.Expr("instr("+postFieldTitle+", ?) > 0", term),
			sq.Expr("instr("+postFieldBody+", ?) > 0", term),
		}).
		OrderBy(postFieldID)

	return repo.queryPosts(ctx, q)
}

func checkAffected(res sql.Result, postID int) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return &contents.PostNotFoundError{ID: postID}
	}

	return nil
}
