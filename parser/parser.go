// Package parser turns roster command lines into statements.
//
// A command is a keyword followed by whitespace-separated arguments.
// Arguments follow shell quoting rules, so names containing spaces can be
// written as "van der Berg". Keywords are case-insensitive and a single
// trailing semicolon is ignored.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrEmpty is returned for a command line with no words.
var ErrEmpty = errors.New("empty command")

// Parse parses a single command from input.
func Parse(input string) (Statement, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimSuffix(input, ";")

	words, err := shellquote.Split(input)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return parseStatement(words)
}

func parseStatement(words []string) (Statement, error) {
	kw, args := strings.ToUpper(words[0]), words[1:]

	switch kw {
	case "INSERT":
		return parseInsert(args)
	case "FIND":
		if err := arity(kw, args, 1, 1); err != nil {
			return nil, err
		}
		id, err := parseInt("id", args[0])
		if err != nil {
			return nil, err
		}
		return &FindStmt{ID: id}, nil
	case "DELETE":
		if err := arity(kw, args, 1, 1); err != nil {
			return nil, err
		}
		id, err := parseInt("id", args[0])
		if err != nil {
			return nil, err
		}
		return &DeleteStmt{ID: id}, nil
	case "RANGE":
		return parseRange(args)
	case "PREFIX":
		if err := arity(kw, args, 1, 1); err != nil {
			return nil, err
		}
		return &PrefixStmt{Prefix: args[0]}, nil
	case "STATS":
		if err := arity(kw, args, 0, 0); err != nil {
			return nil, err
		}
		return &StatsStmt{}, nil
	case "TRACE":
		if len(args) == 0 {
			return nil, fmt.Errorf("TRACE expects a command")
		}
		if strings.EqualFold(args[0], "TRACE") {
			return nil, fmt.Errorf("TRACE cannot be nested")
		}
		inner, err := parseStatement(args)
		if err != nil {
			return nil, err
		}
		return &TraceStmt{Stmt: inner}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", words[0])
	}
}

func parseInsert(args []string) (Statement, error) {
	if err := arity("INSERT", args, 2, 5); err != nil {
		return nil, err
	}
	id, err := parseInt("id", args[0])
	if err != nil {
		return nil, err
	}
	stmt := &InsertStmt{ID: id, Last: args[1]}
	if stmt.Last == "" {
		return nil, fmt.Errorf("INSERT: last name must not be empty")
	}
	if len(args) > 2 {
		stmt.First = args[2]
	}
	if len(args) > 3 {
		stmt.Major = args[3]
	}
	if len(args) > 4 {
		gpa, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gpa %q: %w", args[4], err)
		}
		stmt.GPA = gpa
	}
	return stmt, nil
}

func parseRange(args []string) (Statement, error) {
	if err := arity("RANGE", args, 2, 2); err != nil {
		return nil, err
	}
	lo, err := parseInt("lower bound", args[0])
	if err != nil {
		return nil, err
	}
	hi, err := parseInt("upper bound", args[1])
	if err != nil {
		return nil, err
	}
	return &RangeStmt{Lo: lo, Hi: hi}, nil
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

func arity(kw string, args []string, lo, hi int) error {
	n := len(args)
	if n >= lo && n <= hi {
		return nil
	}
	switch {
	case lo == hi && lo == 0:
		return fmt.Errorf("%s takes no arguments, got %d", kw, n)
	case lo == hi:
		return fmt.Errorf("%s expects %d argument(s), got %d", kw, lo, n)
	default:
		return fmt.Errorf("%s expects %d to %d arguments, got %d", kw, lo, hi, n)
	}
}

func parseInt(what, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return v, nil
}
