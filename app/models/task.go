package models

// Task is a single to-do item.
type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Ack is the store's acknowledgment of an update or delete.
// Affected is zero when no record carried the id.
type Ack struct {
	ID       string `json:"id"`
	Affected int    `json:"affected"`
}
