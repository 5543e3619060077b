// Package formatter marshals the validated record list to the customer
// document and reads it back.
package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"project/customer-loader/record"
)

// Document is the on-disk shape of a saved run: the ordered record list under
// the top-level "customers" key.
type Document struct {
	Customers []record.Customer `yaml:"customers"`
}

// Save writes the whole document to path in one operation. It is only called
// after validation completes, so a failed run never leaves a partial file.
func Save(path string, customers []record.Customer) error {
	data, err := yaml.Marshal(&Document{Customers: customers})
	if err != nil {
		return fmt.Errorf("failed to marshal customer document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads a previously saved document back into a record list.
func Load(path string) ([]record.Customer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return doc.Customers, nil
}

// TimestampedPath inserts the run timestamp before the extension:
// "customers.yml" becomes "customers-20260102-150405.yml".
func TimestampedPath(base string, now time.Time) string {
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), now.Format("20060102-150405"), ext)
}
