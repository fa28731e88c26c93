package media

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store defines the interface for reading and writing the gallery's two image trees
type Store interface {
	// Save stores data under filename in the asset type's directory and
	// returns the path relative to the site root
	Save(assetType AssetType, filename string, data io.Reader) (string, error)
	// Get retrieves a reader for an asset
	Get(assetType AssetType, filename string) (io.ReadCloser, os.FileInfo, error)
	// Stat returns file info for an asset; the error wraps os.ErrNotExist when absent
	Stat(assetType AssetType, filename string) (os.FileInfo, error)
	// List returns the regular file names directly inside the asset type's directory
	List(assetType AssetType) ([]string, error)
	// Delete removes an asset; a missing asset is not an error
	Delete(assetType AssetType, filename string) error
	// FullPath returns the absolute filesystem path of an asset
	FullPath(assetType AssetType, filename string) (string, error)
	// EnsureDir makes sure a specific asset type directory exists
	EnsureDir(assetType AssetType) (string, error)
}

// LocalStorage implements the Store interface below the static site root
type LocalStorage struct {
	basePath        string               // absolute path to the site root
	resolvedPathMap map[AssetType]string // maps AssetType to full absolute path
}

// NewLocalStorage creates a store rooted at basePath. subDirs maps each asset
// type to its directory relative to basePath, e.g. "images/thumbnails".
func NewLocalStorage(basePath string, subDirs map[AssetType]string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	resolvedPaths := make(map[AssetType]string)
	for assetType, subDir := range subDirs {
		fullPath := filepath.Clean(filepath.Join(absBasePath, filepath.FromSlash(subDir)))
		if !within(absBasePath, fullPath) || fullPath == absBasePath {
			return nil, fmt.Errorf("invalid subdirectory configuration: '%s' resolves outside base path '%s'", subDir, absBasePath)
		}
		resolvedPaths[assetType] = fullPath
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{
		basePath:        absBasePath,
		resolvedPathMap: resolvedPaths,
	}, nil
}

// Dir resolves the absolute directory for a given asset type
func (ls *LocalStorage) Dir(assetType AssetType) (string, error) {
	dirPath, ok := ls.resolvedPathMap[assetType]
	if !ok {
		return "", fmt.Errorf("asset type '%s' is not configured", assetType)
	}
	return dirPath, nil
}

// EnsureDir creates the directory for the asset type if it doesn't exist
func (ls *LocalStorage) EnsureDir(assetType AssetType) (string, error) {
	dirPath, err := ls.Dir(assetType)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure directory '%s': %w", dirPath, err)
	}
	return dirPath, nil
}

// FullPath resolves filename inside the asset type directory. Names that would
// escape the directory are rejected.
func (ls *LocalStorage) FullPath(assetType AssetType, filename string) (string, error) {
	dirPath, err := ls.Dir(assetType)
	if err != nil {
		return "", err
	}
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid asset filename '%s'", filename)
	}

	fullPath := filepath.Join(dirPath, filename)
	if !within(dirPath, fullPath) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", filename)
	}
	return fullPath, nil
}

// Save writes data to filename, replacing any previous file of that name.
// The data is staged in a hidden temp file and renamed into place, so readers
// never see a partial file.
func (ls *LocalStorage) Save(assetType AssetType, filename string, data io.Reader) (string, error) {
	dirPath, err := ls.EnsureDir(assetType)
	if err != nil {
		return "", err
	}
	fullSavePath, err := ls.FullPath(assetType, filename)
	if err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp(dirPath, "."+filename+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for '%s': %w", fullSavePath, err)
	}
	tmpPath := tmpFile.Name()

	_, err = io.Copy(tmpFile, data)
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0644)
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}
	if err := os.Rename(tmpPath, fullSavePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move data into '%s': %w", fullSavePath, err)
	}

	relativePath, err := filepath.Rel(ls.basePath, fullSavePath)
	if err != nil {
		return "", fmt.Errorf("internal error calculating relative path: %w", err)
	}

	log.Printf("media.store: Saved asset to %s", fullSavePath)
	return filepath.ToSlash(relativePath), nil
}

func (ls *LocalStorage) Get(assetType AssetType, filename string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.FullPath(assetType, filename)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("asset not found at '%s': %w", filename, err)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", filename, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", filename, err)
	}

	return file, info, nil
}

func (ls *LocalStorage) Stat(assetType AssetType, filename string) (os.FileInfo, error) {
	fullPath, err := ls.FullPath(assetType, filename)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat asset '%s': %w", filename, err)
	}
	return info, nil
}

// List returns the names of regular, non-hidden files in the asset directory. A missing
// directory lists as empty.
func (ls *LocalStorage) List(assetType AssetType) ([]string, error) {
	dirPath, err := ls.Dir(assetType)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory '%s': %w", dirPath, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		// dot files include saves still in flight
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Delete removes an asset file
func (ls *LocalStorage) Delete(assetType AssetType, filename string) error {
	fullPath, err := ls.FullPath(assetType, filename)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) { // Ignore "not exist" errors
		return fmt.Errorf("failed to delete asset '%s': %w", filename, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted asset %s", fullPath)
	}
	return nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
