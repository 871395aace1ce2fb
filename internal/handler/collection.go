package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection-api/internal/model"
	"github.com/iliyamo/movie-collection-api/internal/queue"
	"github.com/iliyamo/movie-collection-api/internal/repository"
	queuepublisher "github.com/iliyamo/movie-collection-api/internal/service"
)

// CollectionHandler serves the CRUD endpoints for user-owned movie
// collections. The authenticated user from the JWT is the only
// authorization key: a collection owned by someone else is answered
// exactly like a nonexistent one.
type CollectionHandler struct {
	Collections *repository.CollectionRepo

	// Publish sends a collection change event. Replaceable in tests;
	// failures are logged by the publisher and otherwise ignored.
	Publish func(ctx context.Context, ev queue.CollectionEvent) error
}

func NewCollectionHandler(collections *repository.CollectionRepo) *CollectionHandler {
	if collections == nil {
		panic("nil repository passed to NewCollectionHandler")
	}
	return &CollectionHandler{
		Collections: collections,
		Publish:     queuepublisher.PublishCollectionChanged,
	}
}

// ----- DTOs -----

type movieSpecReq struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Genres      string `json:"genres"`
	UUID        string `json:"uuid" validate:"required,uuid"`
}

type createCollectionReq struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Movies      []movieSpecReq `json:"movies" validate:"omitempty,dive"`
}

// updateCollectionReq distinguishes absent fields from empty ones: nil
// pointers were not in the request body and leave the stored value
// untouched. A present but empty movies list clears the movie set.
type updateCollectionReq struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Movies      *[]movieSpecReq `json:"movies" validate:"omitempty,dive"`
}

type movieResp struct {
	UUID        string `json:"uuid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Genres      string `json:"genres"`
}

type collectionDetailResp struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Movies      []movieResp `json:"movies"`
}

type collectionSummaryResp struct {
	Title       string `json:"title"`
	UUID        string `json:"uuid"`
	Description string `json:"description"`
}

// Create handles POST /v1/collections: persist a new collection plus
// its movie list in one transaction and return the generated uuid.
func (h *CollectionHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCollectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	col, err := h.Collections.Create(ctx, uid, req.Title, req.Description, toSpecs(req.Movies))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create collection failed"})
	}

	h.publishAsync(queue.CollectionEvent{
		Action:         "created",
		CollectionUUID: col.UUID,
		UserID:         uid,
		Title:          col.Title,
		MovieCount:     len(col.Movies),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, echo.Map{"collection_uuid": col.UUID})
}

// List handles GET /v1/collections: collection summaries for the
// current user plus their favourite genres, comma-space joined.
func (h *CollectionHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summaries, err := h.Collections.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list collections failed"})
	}
	genres, err := h.Collections.FavoriteGenres(ctx, uid, 3)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "aggregate genres failed"})
	}

	out := make([]collectionSummaryResp, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, collectionSummaryResp{Title: s.Title, UUID: s.UUID, Description: s.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"is_success": true,
		"data": echo.Map{
			"collections":      out,
			"favourite_genres": strings.Join(genres, ", "),
		},
	})
}

// Get handles GET /v1/collections/:uuid: one collection with embedded
// movie details.
func (h *CollectionHandler) Get(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	col, err := h.Collections.GetByUUIDAndOwner(ctx, uid, c.Param("uuid"))
	if err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "collection not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get collection failed"})
	}
	return c.JSON(http.StatusOK, toDetail(col))
}

// Update handles PUT /v1/collections/:uuid: partial update of title and
// description, wholesale replacement of the movie set when a movie list
// is present.
func (h *CollectionHandler) Update(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateCollectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
	}

	patch := repository.CollectionPatch{Title: req.Title, Description: req.Description}
	if req.Movies != nil {
		specs := toSpecs(*req.Movies)
		patch.Movies = &specs
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Collections.Update(ctx, uid, c.Param("uuid"), patch); err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "collection not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update collection failed"})
	}

	h.publishAsync(queue.CollectionEvent{
		Action:         "updated",
		CollectionUUID: c.Param("uuid"),
		UserID:         uid,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Collection has been updated"})
}

// Delete handles DELETE /v1/collections/:uuid. Movie rows referenced by
// other collections survive the delete.
func (h *CollectionHandler) Delete(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Collections.Delete(ctx, uid, c.Param("uuid")); err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "collection not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete collection failed"})
	}

	h.publishAsync(queue.CollectionEvent{
		Action:         "deleted",
		CollectionUUID: c.Param("uuid"),
		UserID:         uid,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Collection has been deleted"})
}

func (h *CollectionHandler) publishAsync(ev queue.CollectionEvent) {
	if h.Publish == nil {
		return
	}
	// Detached from the request: a slow or dead broker must not delay
	// the response, and the publisher already logs failures.
	go func() { _ = h.Publish(context.Background(), ev) }()
}

func toSpecs(reqs []movieSpecReq) []repository.MovieSpec {
	specs := make([]repository.MovieSpec, 0, len(reqs))
	for _, m := range reqs {
		specs = append(specs, repository.MovieSpec{
			UUID:        m.UUID,
			Title:       m.Title,
			Description: m.Description,
			Genres:      m.Genres,
		})
	}
	return specs
}

func toDetail(col *model.Collection) collectionDetailResp {
	out := collectionDetailResp{
		Title:       col.Title,
		Description: col.Description,
		Movies:      make([]movieResp, 0, len(col.Movies)),
	}
	for _, m := range col.Movies {
		out.Movies = append(out.Movies, movieResp{
			UUID:        m.UUID,
			Title:       m.Title,
			Description: m.Description,
			Genres:      m.Genres,
		})
	}
	return out
}
