package model

// StoreStats counts persisted records.
type StoreStats struct {
	Tasks     map[Kind]int `json:"tasks"`
	Employees int          `json:"employees"`
}

// TotalTasks returns the number of task records across all kinds.
func (s StoreStats) TotalTasks() int {
	n := 0
	for _, c := range s.Tasks {
		n += c
	}
	return n
}
