package query

import (
	"sort"

	"hr-records/models"
)

// EmployeeViewLess orders by department name, position name, then employee name.
// The id breaks ties so pages never overlap.
func EmployeeViewLess(a, b models.EmployeeView) bool {
	if a.DepartmentName != b.DepartmentName {
		return a.DepartmentName < b.DepartmentName
	}
	if a.PositionName != b.PositionName {
		return a.PositionName < b.PositionName
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID.Hex() < b.ID.Hex()
}

func SortEmployeeViews(views []models.EmployeeView) {
	sort.SliceStable(views, func(i, j int) bool {
		return EmployeeViewLess(views[i], views[j])
	})
}

func SortDepartmentCounts(rows []models.DepartmentWithCount) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID.Hex() < rows[j].ID.Hex()
	})
}

func SortPositionCounts(rows []models.PositionWithCount) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Department != rows[j].Department {
			return rows[i].Department < rows[j].Department
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID.Hex() < rows[j].ID.Hex()
	})
}
