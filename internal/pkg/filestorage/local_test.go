package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by parsing a generated form.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"notes.pdf":               "notes.pdf",
		"My Lecture Notes.PDF":    "my-lecture-notes.pdf",
		"../../etc/passwd":        "passwd",
		`..\..\windows\boot.ini`:  "boot.ini",
		"week 1: intro?.md":       "week-1-intro.md",
		"archive.tar.gz":          "archive-tar.gz",
		"weird.p$f":               "weird",
		"..":                      "",
		"/":                       "",
		"???.pdf":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestSaveFileStaysInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := ls.SaveFile(fileHeader(t, "../../escape.txt", []byte("hi")))
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", name)

	data, err := os.ReadFile(filepath.Join(dir, "escape.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
}

func TestSaveFileOverwritesSameName(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	first, err := ls.SaveFile(fileHeader(t, "slides.pdf", []byte("v1")))
	require.NoError(t, err)
	second, err := ls.SaveFile(fileHeader(t, "Slides.pdf", []byte("v2")))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(ls.GetFullPath(second))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestSaveFileRejectsUnusableName(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.SaveFile(fileHeader(t, "???", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsafeFilename)
}

func TestDeleteFileIsIdempotent(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := ls.SaveFile(fileHeader(t, "a.txt", []byte("x")))
	require.NoError(t, err)
	assert.True(t, ls.Exists(name))
	require.NoError(t, ls.DeleteFile(name))
	require.NoError(t, ls.DeleteFile(name))
	assert.False(t, ls.Exists(name))
	_, err = os.Stat(ls.GetFullPath(name))
	assert.True(t, os.IsNotExist(err))
}
