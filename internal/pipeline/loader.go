package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/adpulse/internal/dataset"
	"github.com/theirongolddev/adpulse/internal/logging"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/store"

	"github.com/google/uuid"
)

// SourceBuiltin names the shipped dataset in LoadResult.Source.
const SourceBuiltin = "builtin"

// revisionSpace namespaces the name-based revision IDs.
var revisionSpace = uuid.MustParse("5b0d6c1e-8f43-4c8a-9d55-7a2c4be1f0a3")

// LoadResult holds a loaded dataset and where it came from.
type LoadResult struct {
	Dataset  *model.Dataset
	Source   string // SourceBuiltin or the dataset file path
	CacheHit bool
	// Revision changes whenever the underlying data changes. It is derived
	// from the file path, mtime and size, so repeated loads of an unchanged
	// file agree.
	Revision string
	LoadedAt time.Time
}

// Load returns the built-in dataset when dataFile is empty, else decodes the file.
func Load(dataFile string) (*LoadResult, error) {
	if dataFile == "" {
		return builtinResult(), nil
	}
	path, info, err := statDataFile(dataFile)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{
		Dataset:  ds,
		Source:   path,
		Revision: fileRevision(path, fileInfoOf(info)),
		LoadedAt: time.Now(),
	}, nil
}

// LoadWithCache loads dataFile through the SQLite cache. A file whose mtime
// and size match the tracked entry is read back from the cache; anything else
// is decoded and saved. A nil cache behaves like Load.
func LoadWithCache(dataFile string, cache *store.Cache) (*LoadResult, error) {
	if dataFile == "" {
		return builtinResult(), nil
	}
	if cache == nil {
		return Load(dataFile)
	}
	log := logging.For("loader")

	path, info, err := statDataFile(dataFile)
	if err != nil {
		return nil, err
	}
	fi := fileInfoOf(info)

	tracked, ok, err := cache.GetTrackedFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	if ok && tracked.Matches(info) {
		ds, rev, err := cache.LoadDataset(path)
		switch {
		case err == nil:
			attachJourneys(ds)
			log.WithField("path", path).Debug("dataset cache hit")
			return &LoadResult{Dataset: ds, Source: path, CacheHit: true, Revision: rev, LoadedAt: time.Now()}, nil
		case errors.Is(err, store.ErrNotCached):
			// tracked without data; fall through and rebuild
		default:
			return nil, fmt.Errorf("loading cached dataset: %w", err)
		}
	}

	ds, err := dataset.LoadFile(path)
	if err != nil {
		if ok {
			// The file changed into something invalid; drop the stale copy.
			if derr := cache.DeleteDataset(path); derr != nil {
				log.WithError(derr).WithField("path", path).Debug("could not drop stale cache entry")
			}
		}
		return nil, err
	}
	rev := fileRevision(path, fi)
	if err := cache.SaveDataset(path, rev, ds, fi); err != nil {
		log.WithError(err).WithField("path", path).Warn("could not cache dataset")
	}
	return &LoadResult{Dataset: ds, Source: path, Revision: rev, LoadedAt: time.Now()}, nil
}

func builtinResult() *LoadResult {
	return &LoadResult{
		Dataset:  dataset.Builtin(),
		Source:   SourceBuiltin,
		Revision: uuid.NewSHA1(revisionSpace, []byte(SourceBuiltin)).String(),
		LoadedAt: time.Now(),
	}
}

func statDataFile(dataFile string) (string, os.FileInfo, error) {
	path, err := filepath.Abs(dataFile)
	if err != nil {
		return "", nil, fmt.Errorf("resolving %s: %w", dataFile, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("dataset file: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("dataset file %s is a directory", path)
	}
	return path, info, nil
}

func fileInfoOf(info os.FileInfo) store.FileInfo {
	return store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}
}

func fileRevision(path string, fi store.FileInfo) string {
	key := fmt.Sprintf("%s|%d|%d", path, fi.MtimeNs, fi.SizeBytes)
	return uuid.NewSHA1(revisionSpace, []byte(key)).String()
}

func attachJourneys(ds *model.Dataset) {
	for id, cd := range ds.Countries {
		cd.Journey = dataset.Journey(id)
		ds.Countries[id] = cd
	}
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "adpulse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "adpulse")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "datasets.db")
}
