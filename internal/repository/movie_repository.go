package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-collection-api/internal/model"
)

// MovieSpec carries the attributes a collection write supplies for one
// movie entry. The UUID is the natural key; the remaining fields are
// only used as fallback values when the movie does not exist yet.
type MovieSpec struct {
	UUID        string
	Title       string
	Description string
	Genres      string
}

// querier is satisfied by both *sql.DB and *sql.Tx so that Resolve can
// participate in the collection repository's transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MovieRepo encapsulates database queries for the `movies` table.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Resolve implements get-or-create by UUID. If a movie with spec.UUID
// already exists its stored attributes win and the incoming ones are
// discarded; otherwise a new row is inserted from the spec. Concurrent
// resolution of the same UUID is safe without application-level locking:
// the loser of the insert race hits the unique constraint on movies.uuid
// and re-reads the winner's row. When q is nil the repo's own pool is
// used; pass a *sql.Tx to resolve inside an enclosing transaction.
func (r *MovieRepo) Resolve(ctx context.Context, q querier, spec MovieSpec) (*model.Movie, error) {
	if q == nil {
		q = r.db
	}
	m, err := getMovieByUUID(ctx, q, spec.UUID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	const qInsert = "INSERT INTO movies (uuid, title, description, genres) VALUES (?, ?, ?, ?)"
	res, err := q.ExecContext(ctx, qInsert, spec.UUID, spec.Title, spec.Description, spec.Genres)
	if err != nil {
		if isDuplicateKey(err) {
			// Lost a race against a concurrent insert; the existing row wins.
			return getMovieByUUID(ctx, q, spec.UUID)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Movie{
		ID:          uint64(id),
		UUID:        spec.UUID,
		Title:       spec.Title,
		Description: spec.Description,
		Genres:      spec.Genres,
	}, nil
}

// GetByUUID fetches a movie by its external UUID. It returns
// sql.ErrNoRows when no such movie exists.
func (r *MovieRepo) GetByUUID(ctx context.Context, uuid string) (*model.Movie, error) {
	return getMovieByUUID(ctx, r.db, uuid)
}

func getMovieByUUID(ctx context.Context, q querier, uuid string) (*model.Movie, error) {
	const qSelect = "SELECT id, uuid, title, description, genres FROM movies WHERE uuid = ?"
	var m model.Movie
	if err := q.QueryRowContext(ctx, qSelect, uuid).Scan(&m.ID, &m.UUID, &m.Title, &m.Description, &m.Genres); err != nil {
		return nil, err
	}
	return &m, nil
}
