package gateway

// Result is the single shape every gateway call returns. Items is a slice for list
// calls and a single entity otherwise. When OK is false ErrorMessage is never empty.
type Result[T any] struct {
	OK           bool
	Items        T
	ErrorMessage string
}

func ok[T any](items T) Result[T] {
	return Result[T]{OK: true, Items: items}
}

func fail[T any](msg string) Result[T] {
	return Result[T]{ErrorMessage: msg}
}

// Fallback messages used when the server does not provide one.
const (
	MsgLoginFailed         = "Login failed"
	MsgLoadUsersFailed     = "Failed to load users"
	MsgLoadUserFailed      = "Failed to load user"
	MsgLoadCompanies       = "Failed to load companies"
	MsgLoadProjects        = "Failed to load projects"
	MsgLoadTasks           = "Failed to load tasks"
	MsgCreateProjectFailed = "Failed to create project"
	MsgCreateTaskFailed    = "Failed to create task"
	MsgDeleteTaskFailed    = "Failed to delete task"
)
