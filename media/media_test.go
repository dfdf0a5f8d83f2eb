package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"food-delivery-admin-api/logger"

	"github.com/stretchr/testify/assert"
)

type failingStore struct{ deletes int }

func (f *failingStore) Upload(context.Context, string, io.Reader) (Asset, error) {
	return Asset{}, errors.New("down")
}

func (f *failingStore) Delete(context.Context, string) error {
	f.deletes++
	return errors.New("down")
}

func TestNopStore(t *testing.T) {
	_, err := NopStore{}.Upload(context.Background(), "a.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, NopStore{}.Delete(context.Background(), "x"))
}

func TestDeleteQuietly(t *testing.T) {
	s := &failingStore{}
	DeleteQuietly(context.Background(), s, "", logger.Discard())
	assert.Equal(t, 0, s.deletes)
	DeleteQuietly(context.Background(), s, "menu/abc", logger.Discard())
	assert.Equal(t, 1, s.deletes)
}

func TestPublicID(t *testing.T) {
	id := publicID("uploads/Margherita Pizza.jpg")
	assert.True(t, strings.HasPrefix(id, "Margherita-Pizza-"), id)
	assert.Len(t, id, len("Margherita-Pizza-")+8)
	assert.True(t, strings.HasPrefix(publicID(".png"), "image-"))
}
