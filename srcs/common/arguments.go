// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/akamensky/argparse"
)

// Exported constants to determine arguments type.
const (
	INT = iota
	BOOL
	STRING
	FLOAT
	LIST
)

// Exported constants to determine which tool is used.
const (
	DEP      = "dep"
	ALPHAESS = "alphaess"
	IANA     = "iana"
	BENCH    = "bench"
	PLOT     = "plot"
	DER      = "der"
	VERBOSE  = "verbose"
)

// Tools lists the tool selection flags in the order they are displayed.
var Tools = []string{DEP, ALPHAESS, IANA, BENCH, PLOT, DER}

const unknownArgs = "unknown arguments"

// Exported struct that represents the arguments of a parser. Each map is
// indexed by the long name of the option.
type Arguments struct {
	IntArg    map[string]*int
	BoolArg   map[string]*bool
	StringArg map[string]*string
	FloatArg  map[string]*float64
	ListArg   map[string]*[]string
}

// ArgRegistrar is implemented by both *argparse.Parser and *argparse.Command
// so that options can be attached to the root parser or to a sub-command.
type ArgRegistrar interface {
	Int(short, long string, opts *argparse.Options) *int
	Flag(short, long string, opts *argparse.Options) *bool
	String(short, long string, opts *argparse.Options) *string
	Float(short, long string, opts *argparse.Options) *float64
	StringList(short, long string, opts *argparse.Options) *[]string
}

// InitArguments allows to initialize the parser in order to parse given
// arguments.
//
// It returns a parser as well as an error if any, otherwise it returns nil.
func (args *Arguments) InitArguments(name, description string) (*argparse.Parser, error) {

	args.initMaps()
	p := argparse.NewParser(name, description)

	return p, nil
}

// NewArguments returns an empty Arguments structure. It is used to hold the
// options of a sub-command so that two sub-commands can share option names.
func NewArguments() *Arguments {
	args := new(Arguments)
	args.initMaps()
	return args
}

func (args *Arguments) initMaps() {
	args.IntArg = make(map[string]*int)
	args.BoolArg = make(map[string]*bool)
	args.StringArg = make(map[string]*string)
	args.FloatArg = make(map[string]*float64)
	args.ListArg = make(map[string]*[]string)
}

// InitArgParse initializes the Arguments structure depending the type of
// the variable.
func (*Arguments) InitArgParse(p ArgRegistrar, args *Arguments, typeVar int,
	short, long string, options *argparse.Options) {
	switch typeVar {
	case INT:
		args.IntArg[long] = new(int)
		args.IntArg[long] = p.Int(short, long, options)
	case BOOL:
		args.BoolArg[long] = new(bool)
		args.BoolArg[long] = p.Flag(short, long, options)
	case STRING:
		args.StringArg[long] = new(string)
		args.StringArg[long] = p.String(short, long, options)
	case FLOAT:
		args.FloatArg[long] = new(float64)
		args.FloatArg[long] = p.Float(short, long, options)
	case LIST:
		args.ListArg[long] = new([]string)
		args.ListArg[long] = p.StringList(short, long, options)
	}
}

// ParseMainArguments parses the main arguments of the toolkit, i.e. the flag
// that selects the tool to run and the verbosity.
//
// It returns an error if any, otherwise it returns nil.
func (*Arguments) ParseMainArguments(p *argparse.Parser, args *Arguments) error {

	if args == nil {
		return errors.New("args structure should be initialized")
	}

	args.InitArgParse(p, args, BOOL, "", DEP,
		&argparse.Options{Required: false, Default: false,
			Help: "Execute the shared-library dependency tool"})
	args.InitArgParse(p, args, BOOL, "", ALPHAESS,
		&argparse.Options{Required: false, Default: false,
			Help: "Execute the AlphaESS cloud API client"})
	args.InitArgParse(p, args, BOOL, "", IANA,
		&argparse.Options{Required: false, Default: false,
			Help: "Execute the TLS cipher suite constants generator"})
	args.InitArgParse(p, args, BOOL, "", BENCH,
		&argparse.Options{Required: false, Default: false,
			Help: "Execute the benchmark log filtering tool"})
	args.InitArgParse(p, args, BOOL, "", PLOT,
		&argparse.Options{Required: false, Default: false,
			Help: "Execute the benchmark chart renderer"})
	args.InitArgParse(p, args, BOOL, "", DER,
		&argparse.Options{Required: false, Default: false,
			Help: "Execute the DER key structure dumper"})
	args.InitArgParse(p, args, BOOL, "v", VERBOSE,
		&argparse.Options{Required: false, Default: false,
			Help: "Display debug logs"})

	return ParserWrapper(p, MainArgs(os.Args))
}

// SelectedTool returns the name of the single tool selected on the command
// line.
//
// It returns an error if no tool or more than one tool is selected.
func (args *Arguments) SelectedTool() (string, error) {
	var selected []string
	for _, tool := range Tools {
		if b, ok := args.BoolArg[tool]; ok && b != nil && *b {
			selected = append(selected, tool)
		}
	}

	switch len(selected) {
	case 0:
		return "", errors.New("one of --" + strings.Join(Tools, ", --") + " is required")
	case 1:
		return selected[0], nil
	default:
		return "", errors.New("only one tool can be selected, got --" +
			strings.Join(selected, " and --"))
	}
}

// ParserWrapper parses the given arguments. Unknown arguments are not
// considered as an error since they belong to another parser.
//
// It returns an error if any, otherwise it returns nil.
func ParserWrapper(p *argparse.Parser, args []string) error {
	err := p.Parse(args)
	if err != nil && strings.HasPrefix(err.Error(), unknownArgs) {
		return nil
	}
	return err
}

// mainFlagCount returns the number of leading main flags of args. Help is
// a main flag only before a tool is selected, otherwise it belongs to the
// tool.
func mainFlagCount(args []string) int {
	tool := false
	for i, arg := range args {
		switch {
		case arg == "-v" || arg == "--"+VERBOSE:
		case strings.HasPrefix(arg, "--") && slices.Contains(Tools, arg[2:]):
			tool = true
		case !tool && (arg == "-h" || arg == "--help"):
		default:
			return i
		}
	}
	return len(args)
}

// MainArgs returns the program name followed by the main flags which lead
// the command line. The options of a tool come after them and never reach
// the main parser, even when one is spelled like a main flag.
func MainArgs(osArgs []string) []string {
	if len(osArgs) == 0 {
		return nil
	}
	return slices.Clone(osArgs[:1+mainFlagCount(osArgs[1:])])
}

// ToolArgs removes the leading main flags from the command line so that the
// tool parser only sees its own arguments.
func ToolArgs(osArgs []string) []string {
	if len(osArgs) == 0 {
		return nil
	}
	n := mainFlagCount(osArgs[1:])
	return append([]string{osArgs[0]}, osArgs[1+n:]...)
}

// CommandFirst moves the root options given before the command token after
// it: argparse only recognises a command right after the program name.
// valued lists the short and long forms of the root options, which all take
// a value.
func CommandFirst(osArgs []string, valued ...string) []string {
	if len(osArgs) < 2 {
		return osArgs
	}

	var root []string
	i := 1
	for i < len(osArgs) {
		name, _, inline := strings.Cut(osArgs[i], "=")
		if !slices.Contains(valued, name) {
			break
		}
		if inline || i+1 == len(osArgs) {
			root = append(root, osArgs[i])
			i++
			continue
		}
		root = append(root, osArgs[i], osArgs[i+1])
		i += 2
	}

	reordered := append([]string{osArgs[0]}, osArgs[i:]...)
	return append(reordered, root...)
}
