// Package record defines the customer record model and the batch validation
// pass that turns raw ingested rows into a cleaned, deduplicated list.
package record

import "fmt"

// ErrMissingField marks a row carrying fewer than the required columns
// (name, IP address, subnet mask).
var ErrMissingField = fmt.Errorf("missing required field")

// Customer is a single validated record. The yaml tags match the field names
// of the saved customer document exactly.
type Customer struct {
	CustomerName      string   `yaml:"CustomerName"`
	CustomerIPAddress string   `yaml:"CustomerIPAddress"`
	IPSubnetMask      string   `yaml:"IPSubnetMask"`
	Tags              []string `yaml:"Tags"`
	ObjectName        string   `yaml:"ObjectName"`
}

// Raw is a candidate row before validation, as produced by file ingestion or
// manual entry. Tags is the unparsed comma-separated form; Service is an
// optional code mapped to a tag via Options.ServiceTags. Line is the 1-based
// source row used in diagnostics.
type Raw struct {
	Name    string
	IP      string
	Mask    string
	Tags    string
	Service string
	Line    int
}
