package attendance

import "context"

// UserDirectory is the boundary to the user directory, which this engine
// does not own. It validates check-in, manual creation and approvers.
type UserDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// UserDirectoryFunc adapts a function to UserDirectory.
type UserDirectoryFunc func(ctx context.Context, userID string) (bool, error)

func (f UserDirectoryFunc) UserExists(ctx context.Context, userID string) (bool, error) {
	return f(ctx, userID)
}
