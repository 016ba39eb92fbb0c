// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// hasSkippedPrefix checks if path starts with one of the prefixes.
func hasSkippedPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if len(prefix) > 0 && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// findExecutables puts together all regular files with an executable bit
// found under root, except those whose path starts with a skipped prefix.
// Unreadable folders are skipped.
//
// It returns a slice containing the found paths and an error if any,
// otherwise it returns nil.
func findExecutables(ctx context.Context, root string, skip []string) ([]string, error) {

	var executables []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			u.Logger().Debug("skip unreadable path", zap.String("path", path),
				zap.Error(err))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			if path == root {
				return err
			}
			return nil
		}

		if hasSkippedPrefix(path, skip) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// The file vanished while walking
			return nil
		}
		if info.Mode().Perm()&0111 != 0 {
			executables = append(executables, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return executables, nil
}
