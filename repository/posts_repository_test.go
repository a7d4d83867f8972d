package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"posts-api/apperrors"
	"posts-api/validation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postCols = []string{"id", "title", "content", "published", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostRepository, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewPostRepository(database), mock
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT (.+) FROM posts WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDReturnsPost(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM posts WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(int64(7), "Post 1", "body", true, now, now))

	post, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), post.ID)
	assert.Equal(t, "Post 1", post.Title)
	assert.True(t, post.Published)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReturnsPersistedEntity(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO posts \(title, content, published\) VALUES \(\$1, \$2, \$3\) RETURNING`).
		WithArgs("Hello", "world", false).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(int64(1), "Hello", "world", false, now, now))

	post, err := repo.Create(context.Background(), validation.CreatePostInput{Title: "Hello", Content: "world"})
	require.NoError(t, err)
	assert.Positive(t, post.ID)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOnlySuppliedFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	title := "New Title"
	mock.ExpectQuery(`UPDATE posts SET title = \$1, updated_at = NOW\(\) WHERE id = \$2 RETURNING`).
		WithArgs("New Title", int64(4)).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(int64(4), "New Title", "old content", false, now.Add(-time.Hour), now))

	post, err := repo.Update(context.Background(), 4, validation.UpdatePostInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New Title", post.Title)
	assert.Equal(t, "old content", post.Content)
	assert.True(t, post.UpdatedAt.After(post.CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAllFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	title, content, published := "T", "C", true
	mock.ExpectQuery(`UPDATE posts SET title = \$1, content = \$2, published = \$3, updated_at = NOW\(\) WHERE id = \$4 RETURNING`).
		WithArgs("T", "C", true, int64(4)).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(int64(4), "T", "C", true, now, now))

	_, err := repo.Update(context.Background(), 4, validation.UpdatePostInput{
		Title: &title, Content: &content, Published: &published,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	title := "x"
	mock.ExpectQuery(`UPDATE posts SET`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 999, validation.UpdatePostInput{Title: &title})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteRemovesRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 2)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSearchPaginationMetadata(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT (.+) FROM posts ORDER BY created_at DESC, id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows(postCols).
			AddRow(int64(3), "Another Post", "c", true, now, now).
			AddRow(int64(2), "Post 2", "c", false, now, now))

	result, err := repo.Search(context.Background(), validation.SearchPostsInput{
		Page: 1, Limit: 2, Sort: "createdAt", Order: "desc",
	})
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, 3, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNext)
	assert.False(t, result.Pagination.HasPrev)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFiltersByPublished(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	published := true
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE published = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT (.+) FROM posts WHERE published = \$1 ORDER BY created_at DESC, id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs(true, 10, 0).
		WillReturnRows(sqlmock.NewRows(postCols).
			AddRow(int64(3), "Another Post", "c", true, now, now).
			AddRow(int64(1), "Post 1", "c", true, now, now))

	result, err := repo.Search(context.Background(), validation.SearchPostsInput{
		Page: 1, Limit: 10, Sort: "createdAt", Order: "desc", Published: &published,
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	for _, post := range result.Data {
		assert.True(t, post.Published)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPageBeyondLastKeepsTrueTotal(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT (.+) FROM posts ORDER BY created_at DESC, id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 40).
		WillReturnRows(sqlmock.NewRows(postCols))

	result, err := repo.Search(context.Background(), validation.SearchPostsInput{
		Page: 5, Limit: 10, Sort: "createdAt", Order: "desc",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 5, result.Pagination.Page)
	assert.Equal(t, 3, result.Pagination.Total)
	assert.Equal(t, 1, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEmptyTableHasZeroPages(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT (.+) FROM posts ORDER BY`).
		WillReturnRows(sqlmock.NewRows(postCols))

	result, err := repo.Search(context.Background(), validation.SearchPostsInput{
		Page: 1, Limit: 10, Sort: "createdAt", Order: "desc",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasNext)
}

func TestCountPublishedAndDrafts(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE published = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE published = \$1`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	published, err := repo.CountPublished(context.Background())
	require.NoError(t, err)
	drafts, err := repo.CountDrafts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, published)
	assert.Equal(t, 6, drafts)
}

func TestStorageFailureIsWrappedGenerically(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT (.+) FROM posts WHERE id = \$1`).
		WillReturnError(assert.AnError)

	_, err := repo.FindByID(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Failed to fetch post", appErr.Message)
}

func TestDeadConnectionMapsToUnavailable(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnError(&pq.Error{Code: "08006"})

	_, err := repo.Search(context.Background(), validation.SearchPostsInput{
		Page: 1, Limit: 10, Sort: "createdAt", Order: "desc",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(err))
}
