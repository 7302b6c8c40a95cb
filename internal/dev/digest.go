package dev

import (
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"
)

// SourceDigest returns the BLAKE3 digest of every file under paths, in order.
// Directories are walked lexically. Missing paths contribute their name so that
// creating them changes the digest. extra values (such as the build command) are
// mixed in as well.
func SourceDigest(paths []string, extra ...string) (string, error) {
	h := blake3.New(32, nil)

	for _, s := range extra {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			h.Write([]byte("missing:" + root))
			h.Write([]byte{0})
			continue
		}
		if err != nil {
			return "", err
		}

		if !info.IsDir() {
			if err := hashFile(h, root, root); err != nil {
				return "", err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			return hashFile(h, path, filepath.ToSlash(filepath.Join(filepath.Base(root), rel)))
		})
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(h *blake3.Hasher, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h.Write([]byte(name))
	h.Write([]byte{0})
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	h.Write([]byte{0})
	return nil
}
