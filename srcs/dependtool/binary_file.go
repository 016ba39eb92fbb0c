// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"bytes"
	"context"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// Classifier tells whether an executable is dynamically linked.
type Classifier interface {
	// Classify returns a description of the file and true if the file is
	// dynamically linked.
	Classify(ctx context.Context, path string) (string, bool, error)
}

// FileClassifier classifies executables with the 'file' command. A failure of
// the command is an error.
type FileClassifier struct{}

// Classify runs 'file' on path.
func (FileClassifier) Classify(ctx context.Context, path string) (string, bool, error) {
	output, err := u.ExecuteOutput(ctx, "file", path)
	if err != nil {
		return "", false, err
	}
	return output, parseFileOutput(output), nil
}

// ElfClassifier classifies executables by decoding their ELF headers. Files
// which cannot be read or which are not ELF files are statically linked.
type ElfClassifier struct{}

// Classify decodes the ELF file at path.
func (ElfClassifier) Classify(_ context.Context, path string) (string, bool, error) {
	elfFile, err := getElf(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			u.Logger().Debug("cannot read executable", zap.String("path", path),
				zap.Error(err))
			return "", false, nil
		}
		return "", false, err
	}
	if elfFile == nil {
		return "", false, nil
	}
	defer elfFile.Close()

	return describeElf(path, elfFile)
}

// getElf reads and decodes an ELF file.
//
// It returns a pointer to an ELF file (nil if the file is not an ELF file or
// is malformed) and an error if the file cannot be read, otherwise it returns
// nil.
func getElf(filename string) (*elf.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	// Read and decode ELF identifier
	var ident [4]uint8
	if _, err := f.ReadAt(ident[0:], 0); err != nil {
		_ = f.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if !bytes.Equal(ident[:], []byte(elf.ELFMAG)) {
		_ = f.Close()
		return nil, nil
	}
	_ = f.Close()

	elfFile, err := elf.Open(filename)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) {
			u.Logger().Debug("malformed ELF file", zap.String("path", filename),
				zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return elfFile, nil
}

// isDynamicElf checks if an ELF file needs the dynamic linker: it either
// requests an interpreter or depends on shared libraries.
func isDynamicElf(elfFile *elf.File) bool {
	for _, prog := range elfFile.Progs {
		if prog.Type == elf.PT_INTERP {
			return true
		}
	}

	libs, err := elfFile.ImportedLibraries()
	return err == nil && len(libs) > 0
}

// describeElf builds a 'file'-like description of an ELF file.
func describeElf(path string, elfFile *elf.File) (string, bool, error) {
	dynamic := isDynamicElf(elfFile)
	arch, machine := GetElfArchitecture(elfFile)

	linkage := "statically linked"
	if dynamic {
		linkage = dynamicMarker
	}

	fields := []string{"ELF"}
	for _, f := range []string{arch, machine, strings.ToLower(
		strings.TrimPrefix(elfFile.Type.String(), "ET_"))} {
		if len(f) > 0 {
			fields = append(fields, f)
		}
	}

	return fmt.Sprintf("%s: %s, %s\n", path, strings.Join(fields, " "), linkage),
		dynamic, nil
}

// GetElfArchitecture gets the ELF architecture.
//
// It returns a string that defines the ELF class and a string that defines the
// Machine type.
func GetElfArchitecture(elfFile *elf.File) (string, string) {
	var arch, mach string

	switch elfFile.Class {
	case elf.ELFCLASS64:
		arch = "64-bit"
	case elf.ELFCLASS32:
		arch = "32-bit"
	}

	switch elfFile.Machine {
	case elf.EM_AARCH64:
		mach = "ARM64"
	case elf.EM_386:
		mach = "x86"
	case elf.EM_X86_64:
		mach = "x86_64"
	case elf.EM_ARM:
		mach = "ARM"
	case elf.EM_RISCV:
		mach = "RISC-V"
	}

	return arch, mach
}
