package launchpad

import "github.com/tidwall/gjson"

// Metadata is the off-chain token metadata document attached at creation.
type Metadata struct {
	Name        string
	Symbol      string
	Description string
	Image       string
}

// ParseMetadata validates and picks the fields the engine cross-checks.
// Name and symbol are required; the rest is display material.
func ParseMetadata(data []byte) (*Metadata, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidParameters
	}
	doc := gjson.ParseBytes(data)
	name := doc.Get("name")
	symbol := doc.Get("symbol")
	if !name.Exists() || !symbol.Exists() {
		return nil, ErrInvalidParameters
	}
	return &Metadata{
		Name:        name.String(),
		Symbol:      symbol.String(),
		Description: doc.Get("description").String(),
		Image:       doc.Get("image").String(),
	}, nil
}
