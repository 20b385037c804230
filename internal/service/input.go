package service

import "encoding/json"

// OptionalID distinguishes an absent JSON field from an explicit null.
// Set is true when the field was present; an empty Value with Set means clear.
type OptionalID struct {
	Set   bool
	Value string
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// ID returns a pointer to the value, or nil when absent or cleared.
func (o OptionalID) ID() *string {
	if !o.Set || o.Value == "" {
		return nil
	}
	v := o.Value
	return &v
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProjectInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// ProjectPatch leaves nil fields untouched. A non-nil Members replaces the
// whole member list.
type ProjectPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Members     *[]string `json:"members"`
}

type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     string     `json:"dueDate"`
	AssignedTo  OptionalID `json:"assignedTo"`
}

type TaskPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *string    `json:"dueDate"`
	AssignedTo  OptionalID `json:"assignedTo"`
}
