package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("/a/b/logo.PNG"))
	assert.True(t, IsImageFile("photo.jpeg"))
	assert.True(t, IsImageFile("scan.tiff"))
	assert.True(t, IsImageFile("still.webp"))
	assert.False(t, IsImageFile("movie.mp4"))
	assert.False(t, IsImageFile("png"))
}

func TestIsFontFile(t *testing.T) {
	assert.True(t, IsFontFile("fonts/Roboto.ttf"))
	assert.True(t, IsFontFile("Inter.OTF"))
	assert.False(t, IsFontFile("font.fon"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("intro_1"))
	assert.True(t, ValidName("b-roll"))
	assert.False(t, ValidName("two words"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("a,b"))
}

func TestConfinedPath(t *testing.T) {
	root := "/srv/media"

	for in, want := range map[string]string{
		"in.mp4":             "/srv/media/in.mp4",
		"out/../still.png":   "/srv/media/still.png",
		"/srv/media/a/b.wav": "/srv/media/a/b.wav",
		"..hidden.png":       "/srv/media/..hidden.png",
	} {
		got, err := ConfinedPath(root, in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "../x.mp4", "/etc/passwd", "/srv/mediaX/a.png", "a/../../b.png", "/srv"} {
		_, err := ConfinedPath(root, in)
		assert.Error(t, err, in)
	}
}
