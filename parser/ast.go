package parser

// Statement is the interface implemented by all command AST nodes.
// The unexported marker method restricts implementations to this package.
type Statement interface {
	statementNode()
}

// InsertStmt: INSERT <id> <last> [first] [major] [gpa]
type InsertStmt struct {
	ID    int64
	Last  string
	First string
	Major string
	GPA   float64
}

// FindStmt: FIND <id>
type FindStmt struct {
	ID int64
}

// DeleteStmt: DELETE <id>
type DeleteStmt struct {
	ID int64
}

// RangeStmt: RANGE <lo> <hi>, both bounds inclusive.
type RangeStmt struct {
	Lo, Hi int64
}

// PrefixStmt: PREFIX <prefix>
type PrefixStmt struct {
	Prefix string
}

// StatsStmt: STATS
type StatsStmt struct{}

// TraceStmt: TRACE <command>
type TraceStmt struct {
	Stmt Statement
}

func (*InsertStmt) statementNode() {}
func (*FindStmt) statementNode()   {}
func (*DeleteStmt) statementNode() {}
func (*RangeStmt) statementNode()  {}
func (*PrefixStmt) statementNode() {}
func (*StatsStmt) statementNode()  {}
func (*TraceStmt) statementNode()  {}

// Keyword returns the command keyword for s, e.g. "FIND".
func Keyword(s Statement) string {
	switch s.(type) {
	case *InsertStmt:
		return "INSERT"
	case *FindStmt:
		return "FIND"
	case *DeleteStmt:
		return "DELETE"
	case *RangeStmt:
		return "RANGE"
	case *PrefixStmt:
		return "PREFIX"
	case *StatsStmt:
		return "STATS"
	case *TraceStmt:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}
