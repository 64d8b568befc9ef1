package artifact

import (
	"encoding/json"
	"log"
	"os"
	"path"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

var (
	// DefaultDirCreationPerm is used when creating artifact directories.
	DefaultDirCreationPerm = os.FileMode(0755)

	// DefaultFileCreationPerm is used when creating artifact files.
	DefaultFileCreationPerm = os.FileMode(0644)
)

// Save validates the artifact and writes it as indented JSON to filePath.
//
// The write is atomic: content goes to a temporary filePath+".saving" file that
// is renamed over filePath once complete. A filePath+".lock" file serializes
// concurrent writers, so two training runs pointed at the same path cannot
// interleave their output.
func (a *Artifact) Save(filePath string) error {
	if err := a.Validate(); err != nil {
		return err
	}
	content, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to serialize artifact %q", a.ID)
	}
	if err = os.MkdirAll(path.Dir(filePath), DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for artifact %q", filePath)
	}

	lockPath := filePath + ".lock"
	var mainErr error
	errLock := execOnFileLock(lockPath, func() {
		tmpPath := filePath + ".saving"
		if mainErr = os.WriteFile(tmpPath, content, DefaultFileCreationPerm); mainErr != nil {
			mainErr = errors.Wrapf(mainErr, "failed to write temporary artifact file %q", tmpPath)
			return
		}
		if mainErr = os.Rename(tmpPath, filePath); mainErr != nil {
			mainErr = errors.Wrapf(mainErr, "failed to move artifact file %q to %q", tmpPath, filePath)
			_ = os.Remove(tmpPath)
			return
		}
		if err := os.Remove(lockPath); err != nil {
			log.Printf("Warning: error removing lock file %q: %+v", lockPath, err)
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to save artifact", lockPath)
	}
	return nil
}

// Load reads an artifact from filePath and validates it before returning.
// Structural problems are reported as CorruptArtifactError.
func Load(filePath string) (*Artifact, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %q", filePath)
	}
	a := &Artifact{}
	if err = json.Unmarshal(content, a); err != nil {
		return nil, corruptf("artifact %q is not valid JSON: %v", filePath, err)
	}
	if err = a.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "while loading %q", filePath)
	}
	return a, nil
}

// execOnFileLock opens (or creates) lockPath, flocks it, and runs fn holding
// the lock. If lockPath is already locked it polls with a 1 to 2 seconds
// period until the lock is acquired.
func execOnFileLock(lockPath string, fn func()) (err error) {
	var f *os.File
	f, err = os.OpenFile(lockPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, DefaultFileCreationPerm)
	if err != nil {
		return errors.Wrapf(err, "while locking %q", lockPath)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Printf("failed to close lock file %q", lockPath)
		}
	}()

	for {
		err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, syscall.EAGAIN) {
			return errors.Wrapf(err, "while locking %q", lockPath)
		}
		// Wait from 1 to 2 seconds.
		time.Sleep(time.Second + time.Duration(time.Now().UnixNano()%int64(time.Second)))
	}

	defer func() {
		if unlockErr := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); unlockErr != nil && err == nil {
			err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
		}
	}()

	fn()
	return
}
