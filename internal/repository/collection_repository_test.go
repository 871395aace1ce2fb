package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newCollectionRepo(t *testing.T) (*CollectionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMock(t)
	return NewCollectionRepo(db, NewMovieRepo(db)), mock
}

func TestCollectionRepo_Create_Empty(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO collections").
		WithArgs(sqlmock.AnyArg(), uint64(1), "My Collection", "great movies").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	col, err := r.Create(context.Background(), 1, "My Collection", "great movies", nil)
	require.NoError(t, err)
	require.Equal(t, uint64(7), col.ID)
	require.Empty(t, col.Movies)
	_, err = uuid.Parse(col.UUID)
	require.NoError(t, err, "collection uuid must be server-generated and well-formed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_Create_DuplicateSpecsCollapse(t *testing.T) {
	r, mock := newCollectionRepo(t)

	spec := MovieSpec{UUID: "m-1", Title: "Queerama", Description: "doc", Genres: ""}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO collections").
		WithArgs(sqlmock.AnyArg(), uint64(1), "C", "D").
		WillReturnResult(sqlmock.NewResult(7, 1))
	// First spec: movie does not exist yet.
	mock.ExpectQuery("SELECT id, uuid, title, description, genres FROM movies").
		WithArgs("m-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO movies").
		WithArgs("m-1", "Queerama", "doc", "").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT IGNORE INTO collection_movies").
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Second identical spec resolves to the same row; no second link.
	mock.ExpectQuery("SELECT id, uuid, title, description, genres FROM movies").
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows(movieCols).AddRow(3, "m-1", "Queerama", "doc", ""))
	mock.ExpectCommit()

	col, err := r.Create(context.Background(), 1, "C", "D", []MovieSpec{spec, spec})
	require.NoError(t, err)
	require.Len(t, col.Movies, 1, "duplicate uuids in one request collapse to a single link")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_Create_RollsBackOnMovieError(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO collections").
		WithArgs(sqlmock.AnyArg(), uint64(1), "C", "D").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT id, uuid, title, description, genres FROM movies").
		WithArgs("m-1").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := r.Create(context.Background(), 1, "C", "D",
		[]MovieSpec{{UUID: "m-1", Title: "t", Description: "d"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet(), "no partial collection may survive")
}

func TestCollectionRepo_Update_NotFoundForForeignOwner(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM collections").
		WithArgs("c-uuid", uint64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	title := "new"
	err := r.Update(context.Background(), 2, "c-uuid", CollectionPatch{Title: &title})
	require.ErrorIs(t, err, ErrCollectionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_Update_OmittedMoviesUntouched(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM collections").
		WithArgs("c-uuid", uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE collections SET title").
		WithArgs("renamed", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	title := "renamed"
	err := r.Update(context.Background(), 1, "c-uuid", CollectionPatch{Title: &title})
	require.NoError(t, err)
	// No DELETE/INSERT on collection_movies was expected or executed.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_Update_EmptyMoviesClearsSet(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM collections").
		WithArgs("c-uuid", uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("DELETE FROM collection_movies").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	empty := []MovieSpec{}
	err := r.Update(context.Background(), 1, "c-uuid", CollectionPatch{Movies: &empty})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_Update_ReplacesMovieSet(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM collections").
		WithArgs("c-uuid", uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT id, uuid, title, description, genres FROM movies").
		WithArgs("m-9").
		WillReturnRows(sqlmock.NewRows(movieCols).AddRow(9, "m-9", "t", "d", "Drama"))
	mock.ExpectExec("DELETE FROM collection_movies").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT IGNORE INTO collection_movies").
		WithArgs(uint64(7), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	movies := []MovieSpec{{UUID: "m-9", Title: "t", Description: "d", Genres: "Drama"}}
	err := r.Update(context.Background(), 1, "c-uuid", CollectionPatch{Movies: &movies})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_Delete_KeepsMovieRows(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM collections").
		WithArgs("c-uuid", uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("DELETE FROM collection_movies").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM collections").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := r.Delete(context.Background(), 1, "c-uuid")
	require.NoError(t, err)
	// Only join rows and the collection go; movies are shared and stay.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_Delete_NotFound(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM collections").
		WithArgs("missing", uint64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := r.Delete(context.Background(), 1, "missing")
	require.ErrorIs(t, err, ErrCollectionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_GetByUUIDAndOwner(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectQuery("SELECT id, uuid, user_id, title, description").
		WithArgs("c-uuid", uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uuid", "user_id", "title", "description"}).
			AddRow(7, "c-uuid", 1, "My Collection", "great movies"))
	mock.ExpectQuery("FROM collection_movies cm").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(3, "m-1", "Queerama", "doc", "").
			AddRow(4, "m-2", "Robin Hood", "epic", "Drama,Action,Romance"))

	col, err := r.GetByUUIDAndOwner(context.Background(), 1, "c-uuid")
	require.NoError(t, err)
	require.Equal(t, "My Collection", col.Title)
	require.Len(t, col.Movies, 2)
	require.Equal(t, "Drama,Action,Romance", col.Movies[1].Genres)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_FavoriteGenres(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectQuery("SELECT m.genres, COUNT").
		WithArgs(uint64(1), 3).
		WillReturnRows(sqlmock.NewRows([]string{"genres", "genre_count"}).
			AddRow("Drama", 2).
			AddRow("Drama,Action", 1))

	genres, err := r.FavoriteGenres(context.Background(), 1, 3)
	require.NoError(t, err)
	// The stored string is grouped literally: "Drama,Action" is its own
	// group, not two occurrences of individual genres.
	require.Equal(t, []string{"Drama", "Drama,Action"}, genres)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_FavoriteGenres_EmptyForNewUser(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectQuery("SELECT m.genres, COUNT").
		WithArgs(uint64(5), 3).
		WillReturnRows(sqlmock.NewRows([]string{"genres", "genre_count"}))

	genres, err := r.FavoriteGenres(context.Background(), 5, 3)
	require.NoError(t, err)
	require.Empty(t, genres)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionRepo_ListByOwner(t *testing.T) {
	r, mock := newCollectionRepo(t)

	mock.ExpectQuery("SELECT uuid, title, description").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "title", "description"}).
			AddRow("c-1", "First", "d1").
			AddRow("c-2", "Second", "d2"))

	out, err := r.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "c-1", out[0].UUID)
	require.NoError(t, mock.ExpectationsWereMet())
}
