// Package corpus loads training text from disk and splits it into training and
// validation sides.
package corpus

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/gomlx/go-subword/internal/xsync"
)

// Loader reads a corpus from a directory of ".txt" files. Create it with New.
type Loader struct {
	dir string

	// Verbosity: 0 for quiet operation; 1 for information about progress.
	Verbosity int

	// maxParallel bounds how many files are read at the same time.
	maxParallel int
}

// New creates a Loader for the given directory. Files are read in sorted name
// order and NFC-normalized, so training sees one canonical form of each
// character regardless of how the files were written.
func New(dir string) *Loader {
	return &Loader{
		dir:         dir,
		Verbosity:   1,
		maxParallel: 8,
	}
}

// WithMaxParallel sets how many files to read at the same time. Default is 8.
// Set to <= 0 to read all files in parallel.
func (l *Loader) WithMaxParallel(maxParallel int) *Loader {
	l.maxParallel = maxParallel
	return l
}

// Load reads every ".txt" file under the directory and returns their contents
// in sorted file-name order. It fails if the directory holds no ".txt" files.
func (l *Loader) Load() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.txt"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list corpus files in %q", l.dir)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no .txt files found in %q", l.dir)
	}
	sort.Strings(paths)

	texts := make([]string, len(paths))
	errs := make([]error, len(paths))
	var totalBytes atomic.Int64
	semaphore := xsync.NewSemaphore(l.maxParallel)
	var wg sync.WaitGroup
	for i, filePath := range paths {
		wg.Add(1)
		go func(i int, filePath string) {
			defer wg.Done()
			semaphore.Acquire()
			defer semaphore.Release()
			content, err := os.ReadFile(filePath)
			if err != nil {
				errs[i] = errors.Wrapf(err, "failed to read corpus file %q", filePath)
				return
			}
			totalBytes.Add(int64(len(content)))
			texts[i] = norm.NFC.String(string(content))
		}(i, filePath)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if l.Verbosity >= 1 {
		log.Printf("Loaded %d corpus file(s), %s, from %q",
			len(paths), humanize.Bytes(uint64(totalBytes.Load())), l.dir)
	}
	return texts, nil
}

// Split shuffles the texts with the given seed and carves off a validation
// share of max(1, len*valRatio) texts. With one text (or none) the same slice
// is returned for both sides, so training is never empty.
//
// The shuffle is seeded, so the split is reproducible.
func Split(texts []string, valRatio float64, seed int64) (train, val []string) {
	if len(texts) <= 1 {
		return texts, texts
	}
	shuffled := make([]string, len(texts))
	copy(shuffled, texts)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	numVal := int(float64(len(shuffled)) * valRatio)
	if numVal < 1 {
		numVal = 1
	}
	return shuffled[numVal:], shuffled[:numVal]
}
