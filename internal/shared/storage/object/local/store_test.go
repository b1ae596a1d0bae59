package local

import (
	"context"
	"io"
	"strings"
	"testing"

	"portfolio-backend/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	key, size, mimeType, err := store.Save(ctx, "user-1", "resume.txt", strings.NewReader("hello resume"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(key, object.ResumePrefix+"/") {
		t.Fatalf("key = %q, want it under %s/", key, object.ResumePrefix)
	}
	if size != int64(len("hello resume")) {
		t.Fatalf("size = %d", size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("mimeType = %q", mimeType)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello resume" {
		t.Fatalf("content = %q", data)
	}

	saver, ok := store.(object.KeySaver)
	if !ok {
		t.Fatal("local store should implement KeySaver")
	}
	if _, err := saver.SaveWithKey(ctx, key+".extracted.txt", "text/plain", strings.NewReader("x")); err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatal("expected open of deleted key to fail")
	}
	if _, err := store.Open(ctx, key+".extracted.txt"); err == nil {
		t.Fatal("expected extracted copy to be deleted")
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())
	for _, key := range []string{"../etc/passwd", "/abs/path", ""} {
		if err := store.Delete(ctx, key); err == nil {
			t.Fatalf("Delete(%q) expected error", key)
		}
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("Open(%q) expected error", key)
		}
	}
}
