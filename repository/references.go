package repository

import (
	"context"
	"errors"
	"fmt"

	"hr-records/models"
)

// ErrInvalidReference means both referenced documents exist but do not belong together.
var ErrInvalidReference = errors.New("position does not belong to department")

// CheckEmployeeReferences verifies that the employee's department and position exist
// and that the position is filed under that department.
func CheckEmployeeReferences(ctx context.Context, departments DepartmentRepository, positions PositionRepository, employee *models.Employee) error {
	if _, err := departments.GetDepartmentByID(ctx, employee.DepartmentID); err != nil {
		return err
	}
	position, err := positions.GetPositionByID(ctx, employee.PositionID)
	if err != nil {
		return err
	}
	if position.DepartmentID != employee.DepartmentID {
		return fmt.Errorf("position %s, department %s: %w",
			employee.PositionID.Hex(), employee.DepartmentID.Hex(), ErrInvalidReference)
	}
	return nil
}
