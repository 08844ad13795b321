package mutate

// ValidationError is returned before any network call when a required input is missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// RejectedError carries the server's message (or a per-call fallback) for a failed call.
type RejectedError struct {
	Message string
}

func (e RejectedError) Error() string {
	return e.Message
}

const (
	MsgCredentialsRequired = "Please enter both email and password"
	MsgProjectNameRequired = "Please enter a project name"
	MsgCompanyIDRequired   = "CompanyId is required"
	MsgMembersRequired     = "Please add at least one member"
	MsgUserIDRequired      = "UserId is required"
	MsgTaskNameRequired    = "Please enter a task name"
	MsgProjectIDRequired   = "ProjectId is required"
	MsgTaskIDRequired      = "TaskId is required"

	// NoteFirstAssigneeOnly is shown when more than one member is selected for a task.
	NoteFirstAssigneeOnly = "only the first selected member is assigned"
)
