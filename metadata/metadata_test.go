package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/ftag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		expectedTitle string
		expectedTrack int
	}{
		{"plain name", "music/Belageddu.mp3", "Belageddu", 0},
		{"dash prefix", "music/01 - Cold.mp3", "Cold", 1},
		{"dot prefix", "3. Something Just Like This.flac", "Something Just Like This", 3},
		{"double digit", "/a/b/12 - Uff Yeh Noor.mp3", "Uff Yeh Noor", 12},
		{"no extension", "Sahiba", "Sahiba", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := FromPath(tt.path)
			assert.Equal(t, tt.expectedTitle, md.Title)
			assert.Equal(t, tt.expectedTrack, md.TrackNumber)
			assert.Empty(t, md.Artist)
			assert.Empty(t, md.Album)
		})
	}
}

func TestExtractID3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Bulleya.mp3")
	art := pngBytes(t)
	data := id3v23(
		textFrame("TIT2", "Bulleya"),
		textFrame("TPE1", "Amit Mishra"),
		textFrame("TALB", "Ae Dil Hai Mushkil"),
		textFrame("TRCK", "4/9"),
		apicFrame("image/png", art),
	)
	require.NoError(t, os.WriteFile(path, data, 0644))

	md, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "Bulleya", md.Title)
	assert.Equal(t, "Amit Mishra", md.Artist)
	assert.Equal(t, "Ae Dil Hai Mushkil", md.Album)
	assert.Equal(t, 4, md.TrackNumber)
	assert.True(t, md.HasArtwork())
	assert.Equal(t, "image/png", md.ArtworkMIME)
	assert.Equal(t, art, md.Artwork)
	// the bytes after the tag are not mpeg frames
	assert.Zero(t, md.Duration)

	img := ArtworkImage(md)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestExtractMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "07 - Sahiba.mp3")
	require.NoError(t, os.WriteFile(path, id3v23(textFrame("TPE1", "Jasleen Royal")), 0644))

	md, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "Sahiba", md.Title, "title falls back to the file name")
	assert.Equal(t, "Jasleen Royal", md.Artist)
	assert.Empty(t, md.Album)
	assert.False(t, md.HasArtwork())
	assert.Equal(t, DefaultArtwork(), ArtworkImage(md))
}

func TestExtractUntagged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "02 - Cold.wav")
	writeWAV(t, path, 3, 8000)

	md, _ := Extract(path)
	assert.Equal(t, "Cold", md.Title)
	assert.Equal(t, 2, md.TrackNumber)
	assert.InDelta(t, 3.0, md.Duration, 0.01)
}

func TestExtractCorrupted(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"corrupted.flac": []byte("not a real flac file"),
		"empty.mp3":      {},
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, content, 0644))

		// must not panic
		md, err := Extract(path)
		assert.Error(t, err, name)
		assert.NotEmpty(t, md.Title, name)
		assert.Zero(t, md.Duration, name)
	}
}

func TestExtractMissingFile(t *testing.T) {
	md, err := Extract(filepath.Join(t.TempDir(), "ThirbokiJeevana.mp3"))
	assert.Error(t, err)
	assert.Equal(t, "ThirbokiJeevana", md.Title)
}

func TestProbeDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeWAV(t, path, 2, 11025)

	d, err := ProbeDuration(path)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 0.01)

	_, err = ProbeDuration(filepath.Join(dir, "track.m4a"))
	assert.Error(t, err)
}

func TestArtworkFallbacks(t *testing.T) {
	def := DefaultArtwork()
	require.NotNil(t, def)
	assert.Equal(t, defaultArtworkSize, def.Bounds().Dx())

	img, err := DecodeArtwork([]byte("garbage"))
	assert.Error(t, err)
	assert.Nil(t, img)

	assert.Equal(t, def, ArtworkImage(Metadata{Artwork: []byte("garbage")}))

	data, mime := ArtworkBytes(Metadata{})
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, DefaultArtworkPNG(), data)

	data, mime = ArtworkBytes(Metadata{Artwork: []byte{1, 2}, ArtworkMIME: "image/jpeg"})
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, []byte{1, 2}, data)
}

func TestLoadArtwork(t *testing.T) {
	dir := t.TempDir()

	tagged := filepath.Join(dir, "Sahiba.mp3")
	require.NoError(t, os.WriteFile(tagged, id3v23(apicFrame("image/png", pngBytes(t))), 0644))
	img, err := LoadArtwork(tagged)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.NotEqual(t, DefaultArtwork(), img)

	plain := filepath.Join(dir, "Cold.mp3")
	require.NoError(t, os.WriteFile(plain, []byte("not really audio"), 0644))
	img, err = LoadArtwork(plain)
	require.NoError(t, err)
	assert.Equal(t, DefaultArtwork(), img)

	_, err = LoadArtwork(filepath.Join(dir, "missing.mp3"))
	assert.Error(t, err)
}

func TestErrorContext(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "Sahiba.mp3")

	_, err := Extract(missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, ftag.NotFound, ftag.Get(err))
	meta := fctx.Unwrap(err)
	assert.Equal(t, "metadata-open", meta["error_at"])
	assert.Equal(t, missing, meta["path"])

	corrupted := filepath.Join(dir, "corrupted.flac")
	require.NoError(t, os.WriteFile(corrupted, []byte("not a real flac file"), 0644))
	_, err = Extract(corrupted)
	require.Error(t, err)
	assert.Equal(t, "metadata-read-tags", fctx.Unwrap(err)["error_at"])

	_, err = ProbeDuration(filepath.Join(dir, "track.m4a"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "metadata-probe-format", fctx.Unwrap(err)["error_at"])
}
