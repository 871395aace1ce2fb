package model

import "time"

// Collection represents a row in the `collections` table. Each collection
// belongs to exactly one user and links to zero or more movies through the
// `collection_movies` join table (set semantics, no duplicate links). The
// UUID is generated server-side at creation and is the only identifier
// ever exposed through the API.
//
// Fields:
//  ID          – primary key identifier.
//  UUID        – server-generated external identifier (collections.uuid, UNIQUE).
//  UserID      – owning user (collections.user_id).
//  Title       – collection title.
//  Description – collection description.
//  Movies      – linked movies, populated only by the read path.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Collection struct {
	ID          uint64    // collections.id
	UUID        string    // collections.uuid
	UserID      uint64    // collections.user_id
	Title       string    // collections.title
	Description string    // collections.description
	Movies      []Movie   // via collection_movies
	CreatedAt   time.Time // collections.created_at
	UpdatedAt   time.Time // collections.updated_at
}

// CollectionSummary is the trimmed listing form of a collection: the
// movie set is deliberately omitted from list responses.
type CollectionSummary struct {
	UUID        string // collections.uuid
	Title       string // collections.title
	Description string // collections.description
}
