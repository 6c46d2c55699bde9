package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/media"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// maxUploadBytes caps a single image file.
const maxUploadBytes = 10 << 20

// UploadHandler pushes images to the CDN and appends the returned URL
// to the owning record.  Nil Media means the CDN is not configured;
// the routes answer 503 rather than failing mid-upload.
type UploadHandler struct {
	Media     *media.Store
	Hotels    *repository.HotelRepo
	RoomTypes *repository.RoomTypeRepo
}

func NewUploadHandler(m *media.Store, h *repository.HotelRepo, rt *repository.RoomTypeRepo) *UploadHandler {
	return &UploadHandler{Media: m, Hotels: h, RoomTypes: rt}
}

// readImage pulls the multipart "image" part out of the request.
func readImage(c echo.Context) (multipart.File, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "image file required")
	}
	if fh.Size > maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
	}
	return fh.Open()
}

// HotelImage uploads one photo for a hotel and appends it to the
// hotel's image list.
func (h *UploadHandler) HotelImage(c echo.Context) error {
	if h.Media == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "media storage not configured"})
	}
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	hotel, err := h.Hotels.GetByID(ctx, hotelID)
	if err != nil {
		return fail(c, err)
	}

	f, err := readImage(c)
	if err != nil {
		return fail(c, err)
	}
	defer func() { _ = f.Close() }()

	url, err := h.Media.Upload(c.Request().Context(), f, fmt.Sprintf("hotels/%d", hotelID))
	if err != nil {
		return fail(c, err)
	}
	hotel.Images = append(hotel.Images, url)
	if err := h.Hotels.Update(ctx, &hotel); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url, "images": hotel.Images})
}

// RemoveHotelImage drops one URL from the hotel's image list.  The CDN
// copy is left alone; the record simply stops referencing it.
func (h *UploadHandler) RemoveHotelImage(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	var req struct {
		ImageURL string `json:"image_url" validate:"required,url"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	hotel, err := h.Hotels.GetByID(ctx, hotelID)
	if err != nil {
		return fail(c, err)
	}

	kept := hotel.Images[:0]
	found := false
	for _, u := range hotel.Images {
		if u == req.ImageURL {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found on hotel"})
	}
	hotel.Images = kept
	if err := h.Hotels.Update(ctx, &hotel); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"images": hotel.Images})
}

// RoomTypeImage uploads one photo for a room type.  Room types carry a
// fixed number of image slots; uploads past the cap are refused.
func (h *UploadHandler) RoomTypeImage(c echo.Context) error {
	if h.Media == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "media storage not configured"})
	}
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	belongs, err := h.RoomTypes.BelongsToHotel(ctx, id, hotelID)
	if err != nil {
		return fail(c, err)
	}
	if !belongs {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	rt, err := h.RoomTypes.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if len(rt.Images) >= model.RoomTypeImageSlots {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": fmt.Sprintf("room type already has %d images", model.RoomTypeImageSlots),
		})
	}

	f, err := readImage(c)
	if err != nil {
		return fail(c, err)
	}
	defer func() { _ = f.Close() }()

	url, err := h.Media.Upload(c.Request().Context(), f, fmt.Sprintf("hotels/%d/room-types/%d", hotelID, id))
	if err != nil {
		return fail(c, err)
	}
	rt.Images = append(rt.Images, url)
	if err := h.RoomTypes.Update(ctx, &rt); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url, "images": rt.Images})
}
