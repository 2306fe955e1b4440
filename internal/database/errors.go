package database

import (
	"fmt"
)

// Entity names the table an operation touched.
type Entity string

const (
	EntityDatabase Entity = "database"
	EntitySnapshot Entity = "snapshot"
	EntitySetting  Entity = "setting"
)

type OpError struct {
	Op       string
	Resource Entity
	Key      string
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Resource, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(entity Entity, op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: entity, Err: err}
}

func wrapKeyErr(entity Entity, op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: entity, Key: key, Err: err}
}
