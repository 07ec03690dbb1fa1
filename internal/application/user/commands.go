package user

// Command is the base interface for user commands.
type Command interface {
	CommandName() string
}

// EnsureUserCommand - find-or-create a user for an external subject id.
// Name and profile fields are used only when the record is created.
type EnsureUserCommand struct {
	ExternalID string
	Username   string
	Email      string
	FirstName  string
	LastName   string
}

func (c EnsureUserCommand) CommandName() string { return "EnsureUser" }
