package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/media"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// ExploreHandler serves the curated discovery feed: public reads,
// admin-managed writes.  Entries are created from multipart forms so
// the cover image can ride along in the same request.
type ExploreHandler struct {
	Explore *repository.ExploreRepo
	Media   *media.Store
}

func NewExploreHandler(ex *repository.ExploreRepo, m *media.Store) *ExploreHandler {
	return &ExploreHandler{Explore: ex, Media: m}
}

// List returns the whole feed.  No auth; the response is cacheable.
func (h *ExploreHandler) List(c echo.Context) error {
	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	items, err := h.Explore.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// uploadCover pushes the optional multipart "image" part to the CDN
// and returns its URL, or "" when the request carried no image.
func (h *ExploreHandler) uploadCover(c echo.Context) (string, error) {
	if _, err := c.FormFile("image"); err != nil {
		return "", nil
	}
	if h.Media == nil {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, "media storage not configured")
	}
	f, err := readImage(c)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	return h.Media.Upload(c.Request().Context(), f, "explore")
}

// Create adds a feed entry from a multipart form: name required,
// description and image optional.
func (h *ExploreHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name is required"})
	}
	url, err := h.uploadCover(c)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	it := model.ExploreItem{
		Name:        name,
		Description: strings.TrimSpace(c.FormValue("description")),
		Image:       url,
	}
	if err := h.Explore.Create(ctx, &it); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// Update amends an entry; absent form fields keep their value and a
// fresh image replaces the old URL.
func (h *ExploreHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	it, err := h.Explore.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		it.Name = name
	}
	if desc := strings.TrimSpace(c.FormValue("description")); desc != "" {
		it.Description = desc
	}
	url, err := h.uploadCover(c)
	if err != nil {
		return fail(c, err)
	}
	if url != "" {
		it.Image = url
	}
	if err := h.Explore.Update(ctx, &it); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

// Delete removes a feed entry.
func (h *ExploreHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := h.Explore.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
