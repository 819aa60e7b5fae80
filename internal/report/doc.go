// Package report turns a stored run into charts: PNG line plots, a single
// HTML page of interactive charts, and terminal plots.
package report
