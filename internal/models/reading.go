// Package models defines the domain types for readlog.
package models

import "time"

// Reading is one book entry from the reading log. Values are built once at
// load time and never mutated afterwards.
type Reading struct {
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Genre    string    `json:"genre"`
	Pages    int       `json:"pages"`
	ISBN     string    `json:"isbn"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// InYear reports whether either boundary date falls in year.
func (r Reading) InYear(year int) bool {
	return r.Started.Year() == year || r.Finished.Year() == year
}
