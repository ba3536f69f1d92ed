package model

type Mapping struct {
	DescColumns []string // description columns to concatenate
	KeyColumns  []string // keyword columns in the keyword table
	ProdColumns []string // product columns in the keyword table (optional)
	DescHeader  int      // header row of the description file (1-based)
	KeyHeader   int      // header row of the keyword file (1-based)
}

type Options struct {
	CaseInsensitive bool // fold keywords and text before matching
	WordBoundary    bool // require non-word runes (or edges) around a match
}

// Record is one description row after column concatenation.
type Record struct {
	Text string // concatenated description
}

type ResultRow struct {
	Keywords string `json:"mappedKeyword"` // matched keywords joined with ", ", "-" if none
	Products string `json:"mappedProduct"` // resolved product strings joined with ", ", "-" if none
}

type Result struct {
	Columns []string            `json:"columns"` // output column order
	Rows    []map[string]string `json:"rows"`    // original cells + derived columns
	Records int                 `json:"records"`
	Matched int                 `json:"matched"` // rows with at least one keyword
	Opts    Options             `json:"opts"`
	Map     Mapping             `json:"mapping"`
}

// Derived column names appended to the description table.
const (
	ColConcatenated = "Concatenated_Description"
	ColKeyword      = "Mapped_Keyword"
	ColProduct      = "Mapped_Product"
)
