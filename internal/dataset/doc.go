// Package dataset records controller training data. Rows pair the observed
// wheel state with the torques the ramp law would command next, and are
// written to CSV files or a SQLite database.
package dataset
