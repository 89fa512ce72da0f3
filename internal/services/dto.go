package services

// CreateTaskParams holds the input for creating a task
type CreateTaskParams struct {
	Description string
	ProjectCode string
	Status      string
	TaskType    string
}

// UpdateTaskParams holds the input for updating a task
type UpdateTaskParams struct {
	Description string
	ProjectCode string
	Status      string
	TaskType    string
}
