package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestCreateAndRead(t *testing.T) {
	s := tempStore(t)
	content := []byte("# Button\nProps.\n")
	if err := s.Create("Button-1.0.0.md", content); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Read("Button-1.0.0.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestCreateMakesRootDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b", "components")
	s, err := NewFS(root)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if err := s.Create("Card-1.md", []byte("card")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Card-1.md")); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestCreateExisting(t *testing.T) {
	s := tempStore(t)
	if err := s.Create("dup-1.md", []byte("first")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := s.Create("dup-1.md", []byte("second"))
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("second Create err = %v, want fs.ErrExist", err)
	}
	got, _ := s.Read("dup-1.md")
	if string(got) != "first" {
		t.Errorf("content overwritten: %q", got)
	}
}

func TestCreateConcurrentSameName(t *testing.T) {
	s := tempStore(t)
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Create("race-1.md", []byte("x")); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if ok != 1 {
		t.Errorf("successful creates = %d, want 1", ok)
	}
}

func TestNoTempFilesLeft(t *testing.T) {
	s := tempStore(t)
	_ = s.Create("a-1.md", []byte("a"))
	_ = s.Create("a-1.md", []byte("b"))

	matches, _ := filepath.Glob(filepath.Join(s.root, ".vision2ui-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestList(t *testing.T) {
	s := tempStore(t)
	_ = s.Create("a-1.md", []byte("a"))
	_ = s.Create("b-2.md", []byte("bb"))
	_ = os.WriteFile(filepath.Join(s.root, "readme.txt"), []byte("not md"), 0o644)
	_ = os.MkdirAll(filepath.Join(s.root, "dir.md"), 0o755)
	_ = os.MkdirAll(filepath.Join(s.root, "sub"), 0o755)
	_ = os.WriteFile(filepath.Join(s.root, "sub", "nested-1.md"), []byte("n"), 0o644)

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2 (%+v)", len(items), items)
	}
	for _, it := range items {
		if it.Filename == "b-2.md" && it.Size != 2 {
			t.Errorf("size = %d, want 2", it.Size)
		}
	}
}

func TestList_MissingRoot(t *testing.T) {
	s, err := NewFS(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	items, err := s.List()
	if err != nil {
		t.Fatalf("List on missing root: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}

func TestList_RootIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	_ = os.WriteFile(f, []byte("x"), 0o644)
	s, _ := NewFS(f)
	items, err := s.List()
	if err != nil || len(items) != 0 {
		t.Errorf("List = %v, %v; want empty, nil", items, err)
	}
}

func TestExists(t *testing.T) {
	s := tempStore(t)
	_ = s.Create("here-1.md", []byte("x"))
	if ok, err := s.Exists("here-1.md"); err != nil || !ok {
		t.Errorf("Exists(here) = %v, %v", ok, err)
	}
	if ok, err := s.Exists("gone-1.md"); err != nil || ok {
		t.Errorf("Exists(gone) = %v, %v", ok, err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempStore(t)
	cases := []string{
		"../../etc/passwd",
		"../outside-1.md",
		"/etc/shadow",
		"sub/inner-1.md",
		`win\path-1.md`,
		"..",
		"",
	}
	for _, p := range cases {
		if _, err := s.Read(p); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Read(%q) err = %v, want ErrInvalidName", p, err)
		}
		if err := s.Create(p, []byte("x")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Create(%q) err = %v, want ErrInvalidName", p, err)
		}
	}
}
