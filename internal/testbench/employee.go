package testbench

import "fmt"

// Employee is the sample value object used by the per-operation benchmarks.
// Two employees are equal when both ID and Name match.
type Employee struct {
	ID   int64
	Name string
}

func (e Employee) String() string {
	return fmt.Sprintf("Employee{id=%d, name='%s'}", e.ID, e.Name)
}
