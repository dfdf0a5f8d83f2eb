package handlers

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"food-delivery-admin-api/apperror"
	"food-delivery-admin-api/middleware"
	"food-delivery-admin-api/services"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 5 << 20

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// Handler serves the admin API on top of the service layer.
type Handler struct {
	svc     *services.Services
	jwt     *middleware.JWT
	release bool
}

// New builds the handlers. In release mode internal error messages are hidden.
func New(svc *services.Services, jwt *middleware.JWT, release bool) *Handler {
	return &Handler{svc: svc, jwt: jwt, release: release}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid id: " + c.Param("id"))
	}
	return uint(id), nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.Validation(key + " must be true or false")
	}
	return &b, nil
}

func queryUint(c *gin.Context, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.Validation(key + " must be a positive integer")
	}
	return uint(n), nil
}

// readImage opens the multipart "image" field. The caller closes it.
func readImage(c *gin.Context) (string, io.ReadCloser, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil, apperror.Validation(`Image file is required (multipart field "image")`)
	}
	if fh.Size > maxImageBytes {
		return "", nil, apperror.Validation("Image must be 5MB or smaller")
	}
	if !imageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return "", nil, apperror.Validation("Image must be a jpg, png, gif or webp file")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, apperror.Wrap(err, "Failed to read upload")
	}
	return fh.Filename, f, nil
}
