package cli

import (
	"errors"
	"fmt"

	"taskdeck-cli/internal/gateway"
	"taskdeck-cli/internal/mutate"
)

var errNotLoggedIn = errors.New("not logged in; run `taskdeck login --email ... --password ...`")

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

// unwrap turns a failed gateway result into a RejectedError carrying its message.
func unwrap[T any](r gateway.Result[T]) (T, error) {
	if !r.OK {
		var zero T
		return zero, mutate.RejectedError{Message: r.ErrorMessage}
	}
	return r.Items, nil
}
