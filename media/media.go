// Package media talks to the external image host. The API only keeps the
// returned URL and public id; bytes never touch the database.
package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

var ErrNotConfigured = errors.New("image storage not configured")

// Asset is what the image host hands back after an upload.
type Asset struct {
	URL string
	ID  string
}

//go:generate mockgen -source=media.go -destination=mediamock/store.go -package=mediamock Store

type Store interface {
	Upload(ctx context.Context, name string, r io.Reader) (Asset, error)
	Delete(ctx context.Context, id string) error
}

// NopStore is used when no image host is configured.
type NopStore struct{}

func (NopStore) Upload(context.Context, string, io.Reader) (Asset, error) {
	return Asset{}, ErrNotConfigured
}

func (NopStore) Delete(context.Context, string) error { return nil }

// DeleteQuietly removes an asset and only logs failures; image cleanup never
// fails the surrounding operation.
func DeleteQuietly(ctx context.Context, s Store, id string, log *slog.Logger) {
	if id == "" {
		return
	}
	if err := s.Delete(ctx, id); err != nil {
		log.Warn("image delete failed", "action", "image_delete_failed", "image_id", id, "error", err)
	}
}
