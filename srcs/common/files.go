// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// SEP is the path separator used to build output paths.
const SEP = string(os.PathSeparator)

// CreateFolder creates a folder (and its parents) if it does not exist.
//
// It returns true if the folder has been created, false if it already exists
// and an error if any.
func CreateFolder(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.MkdirAll(path, 0755); err != nil {
			return false, err
		}
		return true, nil
	} else if err != nil {
		return false, err
	}
	return false, nil
}

// Exists checks if a given file or folder exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteToFile creates (or truncates) a file and writes content into it.
//
// It returns an error if any, otherwise it returns nil.
func WriteToFile(filename string, content []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if _, err := CreateFolder(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, content, 0644)
}

// ReadLinesFile reads a file line by line. Line terminators are removed.
//
// It returns a slice of lines and an error if any, otherwise it returns nil.
func ReadLinesFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadLines(file)
}

// ReadLines reads all the lines of a reader. Line terminators ("\n" or
// "\r\n") are removed.
//
// It returns a slice of lines and an error if any, otherwise it returns nil.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// RecordDataJson saves data into a JSON file named filename.json.
//
// It returns an error if any, otherwise it returns nil.
func RecordDataJson(filename string, data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return WriteToFile(filename+".json", append(b, '\n'))
}

// ReadDataJson loads data from a JSON file named filename.json.
//
// It returns an error if any, otherwise it returns nil.
func ReadDataJson(filename string, data interface{}) error {
	b, err := os.ReadFile(filename + ".json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, data); err != nil {
		return fmt.Errorf("%s.json: %w", filename, err)
	}
	return nil
}

// TrimJsonExt removes the .json extension which is added back by
// RecordDataJson and ReadDataJson.
func TrimJsonExt(path string) string {
	if filepath.Ext(path) == ".json" {
		return path[:len(path)-len(".json")]
	}
	return path
}

// DownloadFile downloads a url and saves its body into dst.
//
// It returns an error if any, otherwise it returns nil.
func DownloadFile(ctx context.Context, dst string, url string) error {

	Logger().Debug("download file", zap.String("url", url), zap.String("path", dst))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
