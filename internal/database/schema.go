package database

import (
	"context"
	"database/sql"
)

// schema lists the DDL for every table the service uses, in dependency
// order. The unique constraints on users.email, movies.uuid and
// collections.uuid are load-bearing: duplicate registration, concurrent
// movie resolution and collection identity all rely on them. The join
// table is keyed on both foreign keys, which is what gives the movie
// set its no-duplicates semantics.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		uuid        CHAR(36) NOT NULL UNIQUE,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		genres      VARCHAR(255) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS collections (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		uuid        CHAR(36) NOT NULL UNIQUE,
		user_id     BIGINT UNSIGNED NOT NULL,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_collections_user (user_id),
		CONSTRAINT fk_collections_user FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS collection_movies (
		collection_id BIGINT UNSIGNED NOT NULL,
		movie_id      BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (collection_id, movie_id),
		CONSTRAINT fk_cm_collection FOREIGN KEY (collection_id) REFERENCES collections (id),
		CONSTRAINT fk_cm_movie FOREIGN KEY (movie_id) REFERENCES movies (id)
	)`,
}

// Migrate applies the schema. Every statement is idempotent so Migrate
// is safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
