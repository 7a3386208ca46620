package suite

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// HashFile returns the hex SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// fingerprintDir walks a band's output directory and fingerprints every
// file in it, paths relative to outRoot, sorted for a stable report.
func fingerprintDir(bandDir, outRoot string) ([]ProducedFile, error) {
	var produced []ProducedFile

	err := filepath.WalkDir(bandDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		sum, err := HashFile(path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outRoot, path)
		if err != nil {
			rel = path
		}
		produced = append(produced, ProducedFile{
			Path:   filepath.ToSlash(rel),
			SHA256: sum,
			Bytes:  info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", bandDir, err)
	}

	sort.Slice(produced, func(i, j int) bool { return produced[i].Path < produced[j].Path })
	return produced, nil
}
