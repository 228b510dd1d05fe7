package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrNoInput      = errors.New("no input files")
)

// CollectFiles lists the regular files of folder, sorted. Hidden entries are skipped.
// Without recursive, subdirectories are ignored.
func CollectFiles(folder string, recursive bool) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", folder, ErrNotDirectory)
	}

	var files []string

	err = filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == folder {
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if entry.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}

			return nil
		}

		if entry.Type().IsRegular() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", folder, err)
	}

	slices.Sort(files)

	return files, nil
}

// Inputs merges explicit files with the content of folder, explicit files first.
// A missing or empty folder is only an error when no explicit file was given either.
func Inputs(files []string, folder string, recursive bool) ([]string, error) {
	inputs := slices.Clone(files)

	if folder != "" {
		found, err := CollectFiles(folder, recursive)
		if err != nil {
			if len(inputs) == 0 {
				return nil, err
			}

			slog.Warn("ignoring folder", "folder", folder, "error", err)
		}

		inputs = append(inputs, found...)
	}

	if len(inputs) == 0 {
		if folder != "" {
			return nil, fmt.Errorf("%w: folder %q is empty", ErrNoInput, folder)
		}

		return nil, ErrNoInput
	}

	return inputs, nil
}
