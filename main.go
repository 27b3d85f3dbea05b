package main

import (
	_ "time/tzdata"

	"hr-records/cmd"
)

// @title HR Records API
// @version 1.0
// @description Employees, departments, positions and administrators over MongoDB.
//
// @host localhost:3000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the PASETO token.
//
// @tag.name Departments
// @tag.name Positions
// @tag.name Employees
// @tag.name Admins
func main() {
	cmd.Execute()
}
