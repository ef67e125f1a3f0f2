// Package model defines the core domain models used throughout the application.
package model

// Category represents one configured destination category.
// Categories are immutable once loaded from configuration.
type Category struct {
	Name        string
	Description string
	Folder      string   // Destination folder name under the base directory
	Keywords    []string // Matched case-insensitively on word boundaries
}
