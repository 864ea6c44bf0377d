// Package models contains the GORM persistence models and their
// conversions to and from the domain entities. Models never leak out
// of the persistence layer; repositories translate at the boundary.
package models
