package executor

// Column describes a column in a command result.
type Column struct {
	Name     string
	TypeOID  int32 // PostgreSQL type OID for wire protocol
	TypeSize int16 // type size in bytes (-1 for variable length)
}

// Result is the outcome of executing a single command.
type Result struct {
	// Columns is set for commands that return rows. nil otherwise.
	Columns []Column

	// Rows holds text-encoded values (nil entry means NULL). Outer slice =
	// rows, inner slice = columns.
	Rows [][][]byte

	// Tag is the CommandComplete tag, e.g. "FIND 1", "INSERT 0 1".
	Tag string

	// Comparisons is the number of index key comparisons the command
	// performed. Only meaningful when Counted is true.
	Comparisons int
	Counted     bool
}

// PostgreSQL type OIDs used in results.
const (
	OIDInt8   int32 = 20  // INT8 / BIGINT
	OIDText   int32 = 25  // TEXT
	OIDFloat8 int32 = 701 // FLOAT8 / DOUBLE PRECISION
)

// recordColumns is the row layout for commands returning records.
var recordColumns = []Column{
	{Name: "id", TypeOID: OIDInt8, TypeSize: 8},
	{Name: "last", TypeOID: OIDText, TypeSize: -1},
	{Name: "first", TypeOID: OIDText, TypeSize: -1},
	{Name: "major", TypeOID: OIDText, TypeSize: -1},
	{Name: "gpa", TypeOID: OIDFloat8, TypeSize: 8},
}
