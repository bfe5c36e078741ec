// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package metadata

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"sync"
)

const defaultArtworkSize = 64

var (
	defaultOnce sync.Once
	defaultImg  image.Image
	defaultPNG  []byte
)

// DefaultArtwork is shown for tracks without embedded artwork: a dark
// diagonal gradient.
func DefaultArtwork() image.Image {
	defaultOnce.Do(buildDefault)
	return defaultImg
}

// DefaultArtworkPNG is DefaultArtwork encoded as PNG, for remotes.
func DefaultArtworkPNG() []byte {
	defaultOnce.Do(buildDefault)
	return defaultPNG
}

func buildDefault() {
	img := image.NewRGBA(image.Rect(0, 0, defaultArtworkSize, defaultArtworkSize))
	for y := 0; y < defaultArtworkSize; y++ {
		for x := 0; x < defaultArtworkSize; x++ {
			v := uint8(40 + (x+y)*60/(2*defaultArtworkSize))
			img.Set(x, y, color.RGBA{R: v / 2, G: v / 2, B: v, A: 0xff})
		}
	}
	defaultImg = img

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err == nil {
		defaultPNG = buf.Bytes()
	}
}

// DecodeArtwork decodes embedded JPEG or PNG artwork.
func DecodeArtwork(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("no artwork")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// ArtworkImage returns the decoded artwork of md, or the default image when
// there is none or it doesn't decode.
func ArtworkImage(md Metadata) image.Image {
	if img, err := DecodeArtwork(md.Artwork); err == nil {
		return img
	}
	return DefaultArtwork()
}

// ArtworkBytes returns the raw artwork with its MIME type, falling back to
// the default PNG.
func ArtworkBytes(md Metadata) ([]byte, string) {
	if md.HasArtwork() {
		mime := md.ArtworkMIME
		if mime == "" {
			mime = "application/octet-stream"
		}
		return md.Artwork, mime
	}
	return DefaultArtworkPNG(), "image/png"
}

// LoadArtwork reads only the tags of path and decodes the artwork. Files
// without usable artwork yield the default image and no error.
func LoadArtwork(path string) (image.Image, error) {
	md, err := readTags(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return DefaultArtwork(), nil
	}
	return ArtworkImage(md), nil
}
