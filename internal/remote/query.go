package remote

import "encoding/json"

// Query is a document list filter, serialized to the backend's JSON query
// format, e.g. {"method":"equal","attribute":"creator","values":["u1"]}.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals value.
func Equal(attribute string, value any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: []any{value}}
}

// Search performs a fulltext match on attribute.
func Search(attribute, term string) Query {
	return Query{Method: "search", Attribute: attribute, Values: []any{term}}
}

// OrderDesc sorts results by attribute, newest first.
func OrderDesc(attribute string) Query {
	return Query{Method: "orderDesc", Attribute: attribute}
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query{Method: "limit", Values: []any{n}}
}

// String returns the wire form of the query.
func (q Query) String() string {
	b, err := json.Marshal(q)
	if err != nil {
		// Query contains only marshalable fields; this cannot happen at runtime.
		panic(err)
	}
	return string(b)
}
