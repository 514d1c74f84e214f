package parser

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) Statement {
	t.Helper()
	stmt, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return stmt
}

func TestParse_Insert(t *testing.T) {
	stmt := mustParse(t, `INSERT 7 "van der Berg" Anna Physics 3.85`)
	ins, ok := stmt.(*InsertStmt)
	require.True(t, ok, "got %T", stmt)
	assert.Equal(t, &InsertStmt{ID: 7, Last: "van der Berg", First: "Anna", Major: "Physics", GPA: 3.85}, ins)
}

func TestParse_InsertMinimal(t *testing.T) {
	stmt := mustParse(t, "insert 1 Smith")
	assert.Equal(t, &InsertStmt{ID: 1, Last: "Smith"}, stmt)
}

func TestParse_InsertErrors(t *testing.T) {
	for _, input := range []string{
		"INSERT",
		"INSERT 1",
		"INSERT x Smith",
		"INSERT 1 ''",
		"INSERT 1 Smith Ann CS 4.0 extra",
		"INSERT 1 Smith Ann CS high",
	} {
		_, err := Parse(input)
		assert.Error(t, err, "Parse(%q)", input)
	}
}

func TestParse_Find(t *testing.T) {
	assert.Equal(t, &FindStmt{ID: 42}, mustParse(t, "FIND 42"))
	assert.Equal(t, &FindStmt{ID: -3}, mustParse(t, "find -3;"))
}

func TestParse_Delete(t *testing.T) {
	assert.Equal(t, &DeleteStmt{ID: 9}, mustParse(t, "Delete 9"))
}

func TestParse_Range(t *testing.T) {
	assert.Equal(t, &RangeStmt{Lo: 5, Hi: 15}, mustParse(t, "RANGE 5 15"))

	_, err := Parse("RANGE 5")
	assert.Error(t, err)
}

func TestParse_Prefix(t *testing.T) {
	assert.Equal(t, &PrefixStmt{Prefix: "Sm"}, mustParse(t, "PREFIX Sm"))
	assert.Equal(t, &PrefixStmt{Prefix: "de la"}, mustParse(t, "prefix 'de la'"))
	assert.Equal(t, &PrefixStmt{Prefix: ""}, mustParse(t, `PREFIX ""`))
}

func TestParse_Stats(t *testing.T) {
	assert.Equal(t, &StatsStmt{}, mustParse(t, "stats"))

	_, err := Parse("STATS now")
	assert.Error(t, err)
}

func TestParse_Trace(t *testing.T) {
	stmt := mustParse(t, "TRACE FIND 3")
	assert.Equal(t, &TraceStmt{Stmt: &FindStmt{ID: 3}}, stmt)

	_, err := Parse("TRACE")
	assert.Error(t, err)
	_, err = Parse("TRACE TRACE FIND 1")
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", ";"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrEmpty, "Parse(%q)", input)
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	_, err := Parse("SELECT * FROM students")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestParse_UnterminatedQuote(t *testing.T) {
	_, err := Parse(`PREFIX "Sm`)
	assert.Error(t, err)
}

func TestParse_NumberErrorIsWrapped(t *testing.T) {
	_, err := Parse("FIND twelve")
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr), "got %v", err)
}

func TestKeyword(t *testing.T) {
	for input, want := range map[string]string{
		"INSERT 1 A":  "INSERT",
		"FIND 1":      "FIND",
		"DELETE 1":    "DELETE",
		"RANGE 1 2":   "RANGE",
		"PREFIX a":    "PREFIX",
		"STATS":       "STATS",
		"TRACE STATS": "TRACE",
	} {
		assert.Equal(t, want, Keyword(mustParse(t, input)))
	}
}
