package roster

import (
	"context"
	"fmt"
)

// Member is a crew member known to the roster. IDs are assigned by the store
// and never reused.
type Member struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Repository interface {
	// ListMembers returns every member ordered by id.
	ListMembers(ctx context.Context) ([]*Member, error)
	// AddMember stores a new member and returns its assigned id.
	AddMember(ctx context.Context, name string) (int64, error)
	// DeleteMember removes the member if present. Deleting an unknown id is not an error.
	DeleteMember(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Disconnect()
}

// StoreError reports that the underlying storage could not serve an operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("roster store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
