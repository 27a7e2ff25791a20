// internal/enrollment/models.go
package enrollment

// SignupInput is a request to add a student to an activity.
type SignupInput struct {
	Activity string
	Email    string
}

// UnregisterInput is a request to remove a student from an activity.
type UnregisterInput struct {
	Activity string
	Email    string
}

// Result is the confirmation returned to clients.
type Result struct {
	Message string `json:"message"`
}
