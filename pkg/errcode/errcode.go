// Package errcode tags failures with a short code for log correlation.
package errcode

import (
	"strconv"

	"go.uber.org/zap"
)

// Category is a symbolic error class.
type Category string

// Known categories, in code order.
const (
	Unknown    Category = "unknown"
	Auth       Category = "auth"
	Permission Category = "permission"
	NotFound   Category = "not_found"
	Validation Category = "validation"
	Conflict   Category = "conflict"
	Storage    Category = "storage"
	Transport  Category = "transport"
	Internal   Category = "internal"
)

// Categories returns the enumeration in code order. Appending is safe,
// reordering changes every code after the moved entry.
func Categories() []Category {
	return []Category{Unknown, Auth, Permission, NotFound, Validation, Conflict, Storage, Transport, Internal}
}

// Code returns the position of c in Categories as lowercase hex, or "-1"
// when c is not part of the enumeration.
func Code(c Category) string {
	for i, v := range Categories() {
		if v == c {
			return strconv.FormatInt(int64(i), 16)
		}
	}
	return "-1"
}

// Report logs err at warn level tagged with the category and its code.
func Report(log *zap.SugaredLogger, c Category, err error) {
	log.Warnw("error",
		"code", Code(c),
		"category", string(c),
		"error", err,
	)
}
