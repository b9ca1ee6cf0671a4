package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2 // schema mismatch, unknown kind, foreign snapshot
	DBConnError     = 3
	CopyError       = 4
	ParseError      = 5 // malformed date, age or code in a data row
	OutputError     = 6
)
