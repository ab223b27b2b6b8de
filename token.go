package toon

// header captures the parsed components of a line's header clause, which
// has the shape:
//
//	KEY? ("[" N "]")? ("{" F1 D F2 ... "}")? ":"
//
// KEY is absent for root array headers and for list-entry array headers.
// The field list and its delimiter are present only for tabular arrays.
type header struct {
	hasKey    bool
	key       string
	keyQuoted bool

	hasLength bool
	length    int

	hasFields bool
	fields    []string
	delim     byte
}

// defaultDelimiter is the delimiter assumed when a header declares none.
const defaultDelimiter byte = ','
