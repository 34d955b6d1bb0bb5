// Package archive unpacks downloaded dataset archives into a directory.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned for entries that would land outside the target
// directory.
var ErrUnsafePath = errors.New("unsafe archive path")

// Extract unpacks archivePath into outDir. The format is chosen by file
// extension; files without a known extension are tried as zip, then tar.gz.
func Extract(archivePath, outDir string) error {
	base := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(base, ".zip"):
		return ExtractZip(archivePath, outDir)
	case strings.HasSuffix(base, ".tar.gz"), strings.HasSuffix(base, ".tgz"):
		return ExtractTarGz(archivePath, outDir)
	default:
		err := ExtractZip(archivePath, outDir)
		if err == nil || errors.Is(err, ErrUnsafePath) {
			return err
		}

		err = ExtractTarGz(archivePath, outDir)
		if err == nil || errors.Is(err, ErrUnsafePath) {
			return err
		}

		return fmt.Errorf("unsupported archive format for %s (expected .zip or .tar.gz/.tgz)", archivePath)
	}
}

// ExtractZip unpacks a zip archive into outDir.
func ExtractZip(archivePath, outDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip archive: %w", err)
	}

	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		targetPath, err := safeExtractPath(outDir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", targetPath, err)
			}

			continue
		}

		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}

		err = writeEntry(targetPath, src)
		_ = src.Close()
		if err != nil {
			return fmt.Errorf("extract zip entry %s: %w", f.Name, err)
		}
	}

	return nil
}

// ExtractTarGz unpacks a gzip-compressed tar archive into outDir. Entries
// other than directories and regular files are skipped.
func ExtractTarGz(archivePath, outDir string) error {
	fh, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open tar.gz archive: %w", err)
	}

	defer func() { _ = fh.Close() }()

	gz, err := gzip.NewReader(fh)
	if err != nil {
		return fmt.Errorf("open gzip reader: %w", err)
	}

	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		targetPath, err := safeExtractPath(outDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", targetPath, err)
			}
		case tar.TypeReg:
			//nolint:gosec // Dataset archives come from the fixed catalog or an explicit local path.
			if err := writeEntry(targetPath, tr); err != nil {
				return fmt.Errorf("extract tar entry %s: %w", hdr.Name, err)
			}
		}
	}

	return nil
}

func writeEntry(targetPath string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	dst, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("create extracted file: %w", err)
	}

	//nolint:gosec // Dataset archives come from the fixed catalog or an explicit local path.
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}

	return dst.Close()
}

func safeExtractPath(baseDir, entryName string) (string, error) {
	cleaned := filepath.Clean(strings.TrimPrefix(filepath.FromSlash(entryName), string(os.PathSeparator)))
	target := filepath.Join(baseDir, cleaned)

	base := filepath.Clean(baseDir) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(target)+string(os.PathSeparator), base) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, entryName)
	}

	return target, nil
}
