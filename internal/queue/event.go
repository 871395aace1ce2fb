// Package queue defines message payloads exchanged over the message
// broker and the background consumer that audits them.
package queue

// CollectionEvent is published whenever a collection is created,
// updated or deleted. It carries enough information for downstream
// consumers to log or trigger analytics without querying the primary
// database. MovieCount is only meaningful for "created" events.
type CollectionEvent struct {
	Action         string `json:"action"` // created | updated | deleted
	CollectionUUID string `json:"collection_uuid"`
	UserID         uint64 `json:"user_id"`
	Title          string `json:"title,omitempty"`
	MovieCount     int    `json:"movie_count,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

// CollectionQueueName is the durable queue both the publisher and the
// consumer declare.
const CollectionQueueName = "collection.changed"
