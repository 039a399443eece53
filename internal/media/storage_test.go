package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStorage(t)

	data := []byte("conteudo do arquivo")
	if err := s.Save("1724930000-abc.mp3", data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get("1724930000-abc.mp3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("stored data mismatch")
	}
	if !s.Exists("1724930000-abc.mp3") {
		t.Error("Exists returned false for stored file")
	}
}

func TestSave_RejectsTraversal(t *testing.T) {
	s := newTestStorage(t)

	for _, bad := range []string{"", "../evil.png", "a/b.png", "..", "dir\\file.png"} {
		if err := s.Save(bad, []byte("x")); err == nil {
			t.Errorf("filename %q accepted", bad)
		}
	}
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)

	if err := s.Save("f.png", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("f.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("f.png") {
		t.Error("file still exists after delete")
	}
	// Deleting a missing file is not an error.
	if err := s.Delete("f.png"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255}) //nolint:gosec
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(pngBytes(t, 128, 96))
	if err != nil {
		t.Fatalf("ComputeBlurHash: %v", err)
	}
	if hash == "" {
		t.Error("empty blurhash")
	}
}

func TestComputeBlurHash_NotAnImage(t *testing.T) {
	if _, err := ComputeBlurHash([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDetectMIME(t *testing.T) {
	if mime := DetectMIME(pngBytes(t, 8, 8)); mime != "image/png" {
		t.Errorf("DetectMIME = %q, want image/png", mime)
	}
	if mime := DetectMIME([]byte("plain text content")); IsAllowedMIME(mime) {
		t.Errorf("text sniffed as allowed type: %q", mime)
	}
}

func TestIsAllowedMIME(t *testing.T) {
	cases := []struct {
		mime string
		want bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"audio/mpeg", true},
		{"image/png; charset=utf-8", true},
		{"application/pdf", false},
		{"text/html", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsAllowedMIME(c.mime); got != c.want {
			t.Errorf("IsAllowedMIME(%q) = %v, want %v", c.mime, got, c.want)
		}
	}
}

func TestIsImageMIME(t *testing.T) {
	if !IsImageMIME("image/webp") {
		t.Error("image/webp not recognized as image")
	}
	if IsImageMIME("audio/mpeg") {
		t.Error("audio/mpeg recognized as image")
	}
}
