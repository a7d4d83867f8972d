package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net"
	"strings"

	"posts-api/apperrors"
	"posts-api/models"
	"posts-api/validation"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const postColumns = "id, title, content, published, created_at, updated_at"

// PostRepository is the single access point to persisted posts.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// FindAll returns every post, newest first.
func (r *PostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, storageError("Failed to fetch posts", err)
	}
	return scanPosts(rows)
}

// FindByID returns the matching post or a not-found error.
func (r *PostRepository) FindByID(ctx context.Context, id int64) (models.Post, error) {
	var post models.Post
	err := r.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id).
		Scan(&post.ID, &post.Title, &post.Content, &post.Published, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, apperrors.NewNotFound("Post not found")
		}
		return models.Post{}, storageError("Failed to fetch post", err)
	}
	return post, nil
}

// Create persists a new post. The id and both timestamps come from the
// table defaults, so createdAt equals updatedAt on a fresh row.
func (r *PostRepository) Create(ctx context.Context, input validation.CreatePostInput) (models.Post, error) {
	var post models.Post
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO posts (title, content, published) VALUES ($1, $2, $3) RETURNING "+postColumns,
		input.Title, input.Content, input.Published).
		Scan(&post.ID, &post.Title, &post.Content, &post.Published, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return models.Post{}, storageError("Failed to create post", err)
	}
	return post, nil
}

// Update applies only the fields present in input and refreshes
// updated_at. A nil field leaves the stored value untouched.
func (r *PostRepository) Update(ctx context.Context, id int64, input validation.UpdatePostInput) (models.Post, error) {
	assignments := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if input.Title != nil {
		args = append(args, *input.Title)
		assignments = append(assignments, fmt.Sprintf("title = $%d", len(args)))
	}
	if input.Content != nil {
		args = append(args, *input.Content)
		assignments = append(assignments, fmt.Sprintf("content = $%d", len(args)))
	}
	if input.Published != nil {
		args = append(args, *input.Published)
		assignments = append(assignments, fmt.Sprintf("published = $%d", len(args)))
	}
	assignments = append(assignments, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d RETURNING %s",
		strings.Join(assignments, ", "), len(args), postColumns)

	var post models.Post
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&post.ID, &post.Title, &post.Content, &post.Published, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, apperrors.NewNotFound("Post not found")
		}
		return models.Post{}, storageError("Failed to update post", err)
	}
	return post, nil
}

// Delete removes a post permanently. Deleting an id that no longer
// exists reports not-found, never an internal failure.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return storageError("Failed to delete post", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageError("Failed to delete post", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("Post not found")
	}
	return nil
}

// Search runs the filter, then counts the full match set, then cuts
// the requested window. A page past the last one yields an empty list
// with metadata still computed from the true total.
func (r *PostRepository) Search(ctx context.Context, input validation.SearchPostsInput) (models.SearchResult, error) {
	clauses := buildSearchClauses(input)

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+clauses.where, clauses.args...).Scan(&total)
	if err != nil {
		return models.SearchResult{}, storageError("Failed to search posts", err)
	}

	selectArgs := make([]interface{}, 0, len(clauses.args)+2)
	selectArgs = append(selectArgs, clauses.args...)
	selectArgs = append(selectArgs, clauses.limit, clauses.offset)
	query := fmt.Sprintf("SELECT %s FROM posts%s ORDER BY %s LIMIT $%d OFFSET $%d",
		postColumns, clauses.where, clauses.orderBy, len(selectArgs)-1, len(selectArgs))

	rows, err := r.db.QueryContext(ctx, query, selectArgs...)
	if err != nil {
		return models.SearchResult{}, storageError("Failed to search posts", err)
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return models.SearchResult{}, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + input.Limit - 1) / input.Limit
	}

	return models.SearchResult{
		Data: posts,
		Pagination: models.PaginationMeta{
			Page:       input.Page,
			Limit:      input.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    input.Page < totalPages,
			HasPrev:    input.Page > 1,
		},
	}, nil
}

// CountPublished counts posts with published = true.
func (r *PostRepository) CountPublished(ctx context.Context) (int, error) {
	return r.countByPublished(ctx, true, "Failed to count published posts")
}

// CountDrafts counts posts with published = false.
func (r *PostRepository) CountDrafts(ctx context.Context) (int, error) {
	return r.countByPublished(ctx, false, "Failed to count drafts")
}

func (r *PostRepository) countByPublished(ctx context.Context, published bool, failMessage string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts WHERE published = $1", published).Scan(&count)
	if err != nil {
		return 0, storageError(failMessage, err)
	}
	return count, nil
}

func scanPosts(rows *sql.Rows) (posts []models.Post, err error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = storageError("Failed to read posts", closeErr)
		}
	}()

	posts = make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Published, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, storageError("Failed to read posts", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("Failed to read posts", err)
	}
	return posts, nil
}

// storageError wraps an unexpected storage failure, distinguishing a
// dead connection (503) from a failed operation (500). The cause stays
// server-side; clients only see the generic message.
func storageError(message string, err error) error {
	if isConnectionError(err) {
		return apperrors.NewUnavailable("Service temporarily unavailable", err)
	}
	return apperrors.NewStorage(message, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 is the connection exception family.
		return strings.HasPrefix(string(pqErr.Code), "08")
	}
	return false
}
