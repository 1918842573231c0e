package types

// TableRenderer is implemented by results that print as a table with --output table
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
	EmptyMessage() string
}

// TableRenderable is implemented by results that can produce a TableRenderer
type TableRenderable interface {
	AsTableRenderer() TableRenderer
}

// KeyValueTable renders ordered key/value pairs as a two-column table
type KeyValueTable struct {
	KeyHeader   string
	ValueHeader string
	Pairs       [][2]string
	Empty       string
}

func (t *KeyValueTable) Headers() []string {
	return []string{t.KeyHeader, t.ValueHeader}
}

func (t *KeyValueTable) Rows() [][]string {
	rows := make([][]string, len(t.Pairs))
	for i, p := range t.Pairs {
		rows[i] = []string{p[0], p[1]}
	}
	return rows
}

func (t *KeyValueTable) EmptyMessage() string {
	return t.Empty
}
