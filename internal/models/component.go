// Package models defines the domain types for the component catalog.
package models

import "time"

// DocumentMetadata describes one markdown file in the storage directory.
type DocumentMetadata struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComponentInfo is the descriptive record for a single indexed component.
type ComponentInfo struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	Checksum    string    `json:"checksum"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}
