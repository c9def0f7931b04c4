package datapack

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Archive zips the finished datapack next to it as <namespace>.zip, with
// entry names relative to the pack root so the zip can be dropped straight
// into a datapacks directory. Returns the zip path.
func (w *Writer) Archive() (string, error) {
	zipPath := w.root + ".zip"
	if err := os.RemoveAll(zipPath); err != nil {
		return "", fmt.Errorf("remove stale zip: %w", err)
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("create zip: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(entry, src)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("archive datapack: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize zip: %w", err)
	}
	return zipPath, nil
}
