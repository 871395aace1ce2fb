package model

// Movie represents a row in the `movies` table. Movies are lightweight
// metadata records created on demand the first time a collection write
// references their UUID. The UUID is supplied externally (it comes from
// the upstream movie catalog) and is unique and immutable; the numeric
// ID stays internal to the database.
//
// Fields:
//  ID          – primary key identifier.
//  UUID        – external movie identifier (movies.uuid, UNIQUE).
//  Title       – movie title.
//  Description – movie description.
//  Genres      – raw genre string as delivered by the catalog, e.g.
//                "Drama,Action,Romance". Stored as opaque text; the
//                application never splits or validates it.
type Movie struct {
	ID          uint64 // movies.id
	UUID        string // movies.uuid
	Title       string // movies.title
	Description string // movies.description
	Genres      string // movies.genres
}
