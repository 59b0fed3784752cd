package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirEntry(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		name := "testfile"
		const isDir = false
		de := NewDirEntry(name, isDir)

		if de.Name() != name {
			t.Errorf("expected Name() = %v, got %v", name, de.Name())
		}
		if de.IsDir() != isDir {
			t.Errorf("expected IsDir() = %v, got %v", isDir, de.IsDir())
		}
		if de.Type() != 0 {
			t.Errorf("expected Type() = 0, got %v", de.Type())
		}
		info, err := de.Info()
		if err != nil {
			t.Errorf("expected no error from Info(), got %v", err)
		}
		if info == nil || info.Name() != name || info.Size() != 0 {
			t.Errorf("expected bare info when no options provided, got %v", info)
		}
	})

	t.Run("directory", func(t *testing.T) {
		name := "testdir"
		const isDir = true
		de := NewDirEntry(name, isDir)

		if de.Name() != name {
			t.Errorf("expected Name() = %v, got %v", name, de.Name())
		}
		if de.IsDir() != isDir {
			t.Errorf("expected IsDir() = %v, got %v", isDir, de.IsDir())
		}
		if de.Type() != os.ModeDir {
			t.Errorf("expected Type() = %v, got %v", os.ModeDir, de.Type())
		}
	})

	t.Run("with_info", func(t *testing.T) {
		name := "testfile"
		const isDir = false
		size := int64(123)
		modTime := time.Now()
		de := NewDirEntry(name, isDir, Size(size), ModTime(modTime), MimeType(MimeTypePNG))

		info, err := de.Info()
		if err != nil {
			t.Errorf("expected no error from Info(), got %v", err)
		}
		if info == nil {
			t.Fatal("expected non-nil info when options provided")
		}
		if info.Name() != name {
			t.Errorf("expected info.Name() = %v, got %v", name, info.Name())
		}
		if info.Size() != size {
			t.Errorf("expected info.Size() = %v, got %v", size, info.Size())
		}
		if !info.ModTime().Equal(modTime) {
			t.Errorf("expected info.ModTime() = %v, got %v", modTime, info.ModTime())
		}
		if info.IsDir() != isDir {
			t.Errorf("expected info.IsDir() = %v, got %v", isDir, info.IsDir())
		}
		if info.Mode() != de.Type() {
			t.Errorf("expected info.Mode() = %v, got %v", de.Type(), info.Mode())
		}
		if mt := info.(*FileInfo).MimeType(); mt != MimeTypePNG {
			t.Errorf("expected info.MimeType() = %v, got %v", MimeTypePNG, mt)
		}
		if info.Sys() != nil {
			t.Errorf("expected info.Sys() = nil, got %v", info.Sys())
		}
	})
}

func TestFileInfo_NilReceiver(t *testing.T) {
	var f *FileInfo
	if f.Name() != "" {
		t.Errorf("expected empty name for nil FileInfo")
	}
	if f.Size() != 0 {
		t.Errorf("expected 0 size for nil FileInfo")
	}
	if f.Mode() != 0 {
		t.Errorf("expected 0 mode for nil FileInfo")
	}
	if !f.ModTime().IsZero() {
		t.Errorf("expected zero modTime for nil FileInfo")
	}
	if f.IsDir() {
		t.Errorf("expected false for IsDir() for nil FileInfo")
	}
	if f.MimeType() != "" {
		t.Errorf("expected empty mime type for nil FileInfo")
	}
	if f.Sys() != nil {
		t.Errorf("expected nil for Sys() for nil FileInfo")
	}
}

func TestNewDirEntry_PanicsOnNameWithPath(t *testing.T) {
	name := filepath.Join("parent", "child")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for name with path")
		}
	}()
	_ = NewDirEntry(name, false)
}
