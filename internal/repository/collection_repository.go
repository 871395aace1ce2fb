package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-collection-api/internal/model"
)

// CollectionPatch describes a partial update. Nil fields were absent
// from the request and are left untouched. Movies distinguishes "absent"
// (nil pointer, keep the current movie set) from "present but empty"
// (clear the movie set entirely).
type CollectionPatch struct {
	Title       *string
	Description *string
	Movies      *[]MovieSpec
}

// CollectionRepo encapsulates database queries for the `collections`
// table and the `collection_movies` join table. Write operations run
// inside a single transaction so that a failure on any movie entry
// rolls back the whole request: no partial collections and no partial
// movie links are ever observable.
type CollectionRepo struct {
	db     *sql.DB
	movies *MovieRepo
}

// NewCollectionRepo constructs a CollectionRepo with the provided DB
// handle and movie repository.
func NewCollectionRepo(db *sql.DB, movies *MovieRepo) *CollectionRepo {
	return &CollectionRepo{db: db, movies: movies}
}

// Create persists a new collection for ownerID with a fresh
// server-generated UUID and links the supplied movie specs. Specs are
// resolved in input order; each one either reuses an existing movie row
// or creates it (get-or-create by UUID). Duplicate UUIDs in the input
// collapse to a single link because the join table is keyed on
// (collection_id, movie_id) and links are inserted with INSERT IGNORE.
func (r *CollectionRepo) Create(ctx context.Context, ownerID uint64, title, description string, specs []MovieSpec) (*model.Collection, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	col := &model.Collection{
		UUID:        uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO collections (uuid, user_id, title, description) VALUES (?, ?, ?, ?)",
		col.UUID, col.UserID, col.Title, col.Description)
	if err != nil {
		return nil, err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	col.ID = uint64(id)

	linked := make(map[uint64]bool, len(specs))
	for _, spec := range specs {
		var m *model.Movie
		if m, err = r.movies.Resolve(ctx, tx, spec); err != nil {
			return nil, err
		}
		if linked[m.ID] {
			continue
		}
		if err = linkMovie(ctx, tx, col.ID, m.ID); err != nil {
			return nil, err
		}
		linked[m.ID] = true
		col.Movies = append(col.Movies, *m)
	}
	return col, nil
}

// Update applies a partial update to the collection identified by
// (ownerID, colUUID). Ownership is part of the lookup key, so a
// collection owned by another user yields ErrCollectionNotFound. When
// the patch carries a movie list the collection's entire movie set is
// replaced with the resolved list; previously linked movies that are
// absent from it are unlinked but never deleted.
func (r *CollectionRepo) Update(ctx context.Context, ownerID uint64, colUUID string, patch CollectionPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var colID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM collections WHERE uuid = ? AND user_id = ?",
		colUUID, ownerID).Scan(&colID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCollectionNotFound
		}
		return err
	}

	if patch.Title != nil {
		if _, err = tx.ExecContext(ctx,
			"UPDATE collections SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			*patch.Title, colID); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if _, err = tx.ExecContext(ctx,
			"UPDATE collections SET description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			*patch.Description, colID); err != nil {
			return err
		}
	}

	if patch.Movies != nil {
		// Replace the set wholesale: resolve first, then swap the join rows.
		movieIDs := make([]uint64, 0, len(*patch.Movies))
		for _, spec := range *patch.Movies {
			var m *model.Movie
			if m, err = r.movies.Resolve(ctx, tx, spec); err != nil {
				return err
			}
			movieIDs = append(movieIDs, m.ID)
		}
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM collection_movies WHERE collection_id = ?", colID); err != nil {
			return err
		}
		for _, mid := range movieIDs {
			if err = linkMovie(ctx, tx, colID, mid); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete removes the collection identified by (ownerID, colUUID) along
// with its join rows. The underlying movie rows are untouched; movies
// are shared across collections and never cascade-deleted.
func (r *CollectionRepo) Delete(ctx context.Context, ownerID uint64, colUUID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var colID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM collections WHERE uuid = ? AND user_id = ?",
		colUUID, ownerID).Scan(&colID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCollectionNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM collection_movies WHERE collection_id = ?", colID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM collections WHERE id = ?", colID); err != nil {
		return err
	}
	return nil
}

// GetByUUIDAndOwner fetches a collection with its nested movies. It
// returns ErrCollectionNotFound when the collection does not exist or
// belongs to a different user.
func (r *CollectionRepo) GetByUUIDAndOwner(ctx context.Context, ownerID uint64, colUUID string) (*model.Collection, error) {
	const qCol = `SELECT id, uuid, user_id, title, description
	              FROM collections WHERE uuid = ? AND user_id = ?`
	var col model.Collection
	err := r.db.QueryRowContext(ctx, qCol, colUUID, ownerID).
		Scan(&col.ID, &col.UUID, &col.UserID, &col.Title, &col.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}

	const qMovies = `SELECT m.id, m.uuid, m.title, m.description, m.genres
	                 FROM collection_movies cm
	                 JOIN movies m ON m.id = cm.movie_id
	                 WHERE cm.collection_id = ?
	                 ORDER BY m.id`
	rows, err := r.db.QueryContext(ctx, qMovies, col.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.UUID, &m.Title, &m.Description, &m.Genres); err != nil {
			return nil, err
		}
		col.Movies = append(col.Movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &col, nil
}

// ListByOwner returns summaries of all collections owned by ownerID
// ordered by id. Movie details are deliberately omitted from the list
// form.
func (r *CollectionRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.CollectionSummary, error) {
	const q = `SELECT uuid, title, description
	           FROM collections WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CollectionSummary{}
	for rows.Next() {
		var s model.CollectionSummary
		if err := rows.Scan(&s.UUID, &s.Title, &s.Description); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FavoriteGenres returns the top n genre strings across all movies in
// all of the owner's collections, most frequent first. The stored
// genres value is grouped literally: "Drama,Action" is one group,
// distinct from "Drama". A movie linked from two collections counts
// twice. Ties break lexicographically so the output is deterministic
// for a fixed input. An empty slice is returned when the owner has no
// collections or no movies.
func (r *CollectionRepo) FavoriteGenres(ctx context.Context, ownerID uint64, n int) ([]string, error) {
	const q = `SELECT m.genres, COUNT(*) AS genre_count
	           FROM collection_movies cm
	           JOIN collections c ON c.id = cm.collection_id
	           JOIN movies m ON m.id = cm.movie_id
	           WHERE c.user_id = ?
	           GROUP BY m.genres
	           ORDER BY genre_count DESC, m.genres ASC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, ownerID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var genres string
		var count int
		if err := rows.Scan(&genres, &count); err != nil {
			return nil, err
		}
		out = append(out, genres)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// linkMovie inserts one join row. INSERT IGNORE keeps set semantics:
// re-linking an already linked movie is a no-op rather than an error.
func linkMovie(ctx context.Context, q querier, collectionID, movieID uint64) error {
	_, err := q.ExecContext(ctx,
		"INSERT IGNORE INTO collection_movies (collection_id, movie_id) VALUES (?, ?)",
		collectionID, movieID)
	return err
}
