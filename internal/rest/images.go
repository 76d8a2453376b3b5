package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/imagio/imagio/api"
	"github.com/imagio/imagio/media/application"
	"github.com/imagio/imagio/media/domain"
)

type ImageHandler struct {
	images   *application.ImageService
	variants application.Resolver
}

func NewImageHandler(images *application.ImageService, variants application.Resolver) *ImageHandler {
	return &ImageHandler{
		images:   images,
		variants: variants,
	}
}

// GetVariant serves the bytes of an image at the requested variant.
func (h *ImageHandler) GetVariant(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("uuid")
	variant := domain.ParseVariant(c.Param("variant"))

	img, err := h.images.Get(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	data, err := h.variants.Resolve(ctx, img, variant)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, img.MIME, data)
}

// GetImage returns the metadata record for a uuid.
func (h *ImageHandler) GetImage(c *gin.Context) {
	img, err := h.images.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomain(img))
}

// ListImages returns the records in a category, newest first.
func (h *ImageHandler) ListImages(c *gin.Context) {
	limit, err := strconv.Atoi(c.Param("limit"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid limit")
		return
	}
	skip, err := strconv.Atoi(c.Param("skip"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid skip")
		return
	}

	images, err := h.images.List(c.Request.Context(), c.Param("category"), limit, skip)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomainList(images))
}

// UploadImage stores a multipart payload as a new original.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read upload")
		return
	}

	img, err := h.images.Upload(c.Request.Context(), c.Param("category"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomain(img))
}

// DeleteImage removes an image record and its stored original.
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	if err := h.images.Delete(c.Request.Context(), c.Param("uuid")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// abortWithError maps the media error taxonomy onto HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.String(http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrDecode):
		c.String(http.StatusBadRequest, "bad image data")
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		c.String(http.StatusInternalServerError, "internal server error")
	}
	c.Abort()
}
