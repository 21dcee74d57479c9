package entity

import "github.com/google/uuid"

type ID string

// NewID returns a fresh random deployment identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string { return string(id) }
