package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

var jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(maxImageSize * 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestCheckImage(t *testing.T) {
	ct, err := CheckImage(pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, err = CheckImage(jpegBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	_, err = CheckImage([]byte("GIF89a\x01\x00\x01\x00"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestPrepareImage(t *testing.T) {
	in, err := PrepareImage(fileHeader(t, "Front.PNG", pngBytes), FolderProducts)
	require.NoError(t, err)
	assert.Equal(t, FolderProducts, in.Folder)
	assert.Equal(t, "image/png", in.ContentType)
	assert.True(t, strings.HasSuffix(in.Filename, ".png"))
	assert.NotContains(t, in.Filename, "Front")

	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, body)
}

func TestPrepareImageRejects(t *testing.T) {
	_, err := PrepareImage(fileHeader(t, "anim.gif", []byte("GIF89a")), FolderProducts)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = PrepareImage(fileHeader(t, "disguised.jpg", []byte("#!/bin/sh\necho hi\n")), FolderProducts)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	big := append(append([]byte{}, pngBytes...), make([]byte, maxImageSize)...)
	_, err = PrepareImage(fileHeader(t, "huge.png", big), FolderProfiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestSignCloudinaryParams(t *testing.T) {
	// sha1("folder=uploads&timestamp=1700000000abcd")
	got := signCloudinaryParams(map[string]string{
		"timestamp": "1700000000",
		"folder":    "uploads",
		"empty":     "",
	}, "abcd")
	assert.Len(t, got, 40)
	assert.Equal(t, signCloudinaryParams(map[string]string{"folder": "uploads", "timestamp": "1700000000"}, "abcd"), got)
	assert.NotEqual(t, signCloudinaryParams(map[string]string{"folder": "uploads", "timestamp": "1700000000"}, "other"), got)
}

func TestCloudinaryUpload(t *testing.T) {
	var gotForm map[string]string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		if f, _, err := r.FormFile("file"); assert.NoError(t, err) {
			gotFile, _ = io.ReadAll(f)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://res.cloudinary.test/demo/uploads/x.png"})
	}))
	defer srv.Close()

	u, err := newCloudinaryUploader(srv.URL, "demo", "key", "secret")
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), UploadInput{
		Folder:      FolderProducts,
		Filename:    "x.png",
		ContentType: "image/png",
		Body:        bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.test/demo/uploads/x.png", url)
	assert.Equal(t, pngBytes, gotFile)

	assert.Equal(t, "key", gotForm["api_key"])
	assert.Equal(t, "uploads", gotForm["folder"])
	assert.Equal(t, "x", gotForm["public_id"])
	signed := map[string]string{}
	for _, k := range []string{"allowed_formats", "folder", "public_id", "timestamp"} {
		signed[k] = gotForm[k]
	}
	assert.Equal(t, signCloudinaryParams(signed, "secret"), gotForm["signature"])
}

func TestCloudinaryUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	u, err := newCloudinaryUploader(srv.URL, "demo", "key", "secret")
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), UploadInput{Folder: FolderProfiles, Filename: "me.png", Body: bytes.NewReader(pngBytes)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestUploaderConstructorsNeedSettings(t *testing.T) {
	_, err := NewCloudinaryUploader("", "key", "secret")
	assert.Error(t, err)

	_, err = NewS3Uploader(context.Background(), "", true)
	assert.Error(t, err)
}
