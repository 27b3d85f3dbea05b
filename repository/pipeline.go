package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hr-records/config"
	"hr-records/models"
	"hr-records/pkg/query"
)

// EmployeeMatch builds the $match document for a listing or search.
func EmployeeMatch(f models.EmployeeFilter) bson.D {
	match := bson.D{}
	if f.Name != "" {
		match = append(match, bson.E{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}})
	}
	if f.DepartmentID != nil {
		match = append(match, bson.E{Key: "department_id", Value: *f.DepartmentID})
	}
	if f.PositionID != nil {
		match = append(match, bson.E{Key: "position_id", Value: *f.PositionID})
	}
	return match
}

// employeeJoinStages joins employees to their department and position. $unwind
// without preserveNullAndEmptyArrays drops employees whose references do not resolve.
func employeeJoinStages(f models.EmployeeFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: EmployeeMatch(f)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.DepartmentCollection},
			{Key: "localField", Value: "department_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "department"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.PositionCollection},
			{Key: "localField", Value: "position_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "position"},
		}}},
		{{Key: "$unwind", Value: "$department"}},
		{{Key: "$unwind", Value: "$position"}},
	}
}

// EmployeeListPipeline joins, filters, sorts and pages employees.
func EmployeeListPipeline(f models.EmployeeFilter, page query.Page) mongo.Pipeline {
	pipeline := employeeJoinStages(f)
	pipeline = append(pipeline,
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "email", Value: 1},
			{Key: "phone", Value: 1},
			{Key: "dob", Value: 1},
			{Key: "address", Value: 1},
			{Key: "department_name", Value: "$department.name"},
			{Key: "position_name", Value: "$position.name"},
			{Key: "start_date", Value: 1},
			{Key: "salary", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "department_name", Value: 1},
			{Key: "position_name", Value: 1},
			{Key: "name", Value: 1},
			{Key: "_id", Value: 1},
		}}},
	)
	return appendPage(pipeline, page)
}

// EmployeeCountPipeline counts the same joined set EmployeeListPipeline pages over.
func EmployeeCountPipeline(f models.EmployeeFilter) mongo.Pipeline {
	return append(employeeJoinStages(f), bson.D{{Key: "$count", Value: "total"}})
}

// SalaryTotalPipeline sums every salary into a single totalSalary row.
func SalaryTotalPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSalary", Value: bson.D{{Key: "$sum", Value: "$salary"}}},
		}}},
	}
}

// DepartmentCountPipeline keeps departments without employees.
func DepartmentCountPipeline(page query.Page) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.EmployeeCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "department_id"},
			{Key: "as", Value: "employees"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "employeeCount", Value: bson.D{{Key: "$size", Value: "$employees"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "_id", Value: 1},
		}}},
	}
	return appendPage(pipeline, page)
}

func positionDepartmentStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.DepartmentCollection},
			{Key: "localField", Value: "department_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "department"},
		}}},
		{{Key: "$unwind", Value: "$department"}},
	}
}

// PositionCountPipeline drops positions whose department does not resolve.
func PositionCountPipeline(page query.Page) mongo.Pipeline {
	pipeline := positionDepartmentStages()
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.EmployeeCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "position_id"},
			{Key: "as", Value: "employees"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "department_id", Value: 1},
			{Key: "department", Value: "$department.name"},
			{Key: "employeeCount", Value: bson.D{{Key: "$size", Value: "$employees"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "department", Value: 1},
			{Key: "name", Value: 1},
			{Key: "_id", Value: 1},
		}}},
	)
	return appendPage(pipeline, page)
}

// PositionTotalPipeline counts the rows PositionCountPipeline can return.
func PositionTotalPipeline() mongo.Pipeline {
	return append(positionDepartmentStages(), bson.D{{Key: "$count", Value: "total"}})
}

func appendPage(pipeline mongo.Pipeline, page query.Page) mongo.Pipeline {
	if !page.Paginated() {
		return pipeline
	}
	return append(pipeline,
		bson.D{{Key: "$skip", Value: page.ItemOffset}},
		bson.D{{Key: "$limit", Value: page.ItemsPerPage}},
	)
}
