// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-rombat.
//
// go-rombat is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-rombat is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-rombat.  If not, see <https://www.gnu.org/licenses/>.

package rombat

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ZaparooProject/go-rombat/detector"
)

// ScanOptions configures a directory scan.
type ScanOptions struct {
	DispatchOptions

	// Workers is the number of files classified concurrently.
	// Values below 2 classify files one at a time.
	Workers int
}

// scanJob is a file selected by the walk, or a filesystem error met on the way.
type scanJob struct {
	path    string
	console Console
	err     error
}

// Scan walks root and classifies every file whose name maps to a supported
// console. Files with other names are skipped without being opened.
//
// Header mismatches and filesystem errors below root become Unreadable
// entries and the scan continues. An error is returned only when root itself
// cannot be walked or ctx is cancelled. Entries are sorted by path so the
// result does not depend on Workers.
func Scan(ctx context.Context, root string, opts ScanOptions) ([]Entry, error) {
	root = filepath.Clean(root)

	jobs, err := collectJobs(ctx, root, opts.DispatchOptions)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(jobs))
	if opts.Workers < 2 {
		for i, job := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			entries[i] = job.run()
		}
		return entries, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = job.run()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// collectJobs walks root and returns the files to classify, sorted by path.
// A root that is a symlink to a directory is followed. Links below it are
// followed only to regular files.
func collectJobs(ctx context.Context, root string, opts DispatchOptions) ([]scanJob, error) {
	// WalkDir uses Lstat on its root, a trailing separator makes it resolve a link.
	walkRoot := root
	if !strings.HasSuffix(walkRoot, string(filepath.Separator)) {
		walkRoot += string(filepath.Separator)
	}

	jobs := make([]scanJob, 0, 128)
	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == walkRoot {
				return walkErr
			}
			jobs = append(jobs, scanJob{path: path, err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		console, err := ConsoleForName(d.Name(), opts)
		if err != nil {
			return nil
		}

		regular, err := isRegularFile(path, d)
		if err != nil {
			jobs = append(jobs, scanJob{path: path, console: console, err: err})
			return nil
		}
		// Pipes, devices and links to directories are never ROM images.
		if !regular {
			return nil
		}

		jobs = append(jobs, scanJob{path: path, console: console})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].path < jobs[j].path })
	return jobs, nil
}

// isRegularFile reports whether path is a regular file, following a symlink
// to its target. A dangling link returns the Stat error.
func isRegularFile(path string, d fs.DirEntry) (bool, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("follow link: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

func (j scanJob) run() Entry {
	if j.err != nil {
		return Entry{
			Path:           j.path,
			Name:           filepath.Base(j.path),
			Console:        j.console,
			Classification: detector.UnreadableError(j.err),
		}
	}
	return ClassifyFile(j.path, j.console)
}
