package repository

import "gorm.io/gorm"

// ErrNotFound is gorm's record-not-found, re-exported so callers in this
// package compare against one name.
var ErrNotFound = gorm.ErrRecordNotFound
