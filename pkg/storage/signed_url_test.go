package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("exp-1", "registrations/file.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	exportID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "exp-1", exportID)
	require.Equal(t, "registrations/file.csv", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Generate("exp-1", "contacts/file.pdf")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	exportID, path, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "exp-1", exportID)
	require.Equal(t, "contacts/file.pdf", path)
}

func TestThumbnailPathSanitizesFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	path := ThumbnailPath("my photo (1).jpg", now)
	require.Equal(t, "thumbnails/1700000000000_my_photo__1_.jpg", path)
}

func TestPublicURLJoins(t *testing.T) {
	url := PublicURL("http://localhost:8080/uploads/", "/thumbnails/a.png")
	require.Equal(t, "http://localhost:8080/uploads/thumbnails/a.png", url)
}
