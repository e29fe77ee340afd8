package model

// Employee is a member of a department who can be assigned tasks.
type Employee struct {
	ID         string `validate:"required,employeeid"`
	Name       string `validate:"required,notblank"`
	Department string `validate:"required"`
}

// Same reports whether both employees have the same identity.
func (e Employee) Same(o Employee) bool {
	return e.ID != "" && e.ID == o.ID
}
