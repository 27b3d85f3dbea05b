package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response.
type Envelope struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message" example:"Get employee successfully"`
	Data    interface{} `json:"data,omitempty"`
}

// Paged is the data of a paginated listing.
type Paged struct {
	Data      interface{} `json:"data"`
	TotalPage int64       `json:"totalPage" example:"3"`
}

type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"Invalid input data. Please check and try again."`
}

type EmployeeListResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Get employee successfully"`
	Data    struct {
		Data      []EmployeeView `json:"data"`
		TotalPage int64          `json:"totalPage" example:"3"`
	} `json:"data"`
}

type EmployeeResponse struct {
	Status  string   `json:"status" example:"success"`
	Message string   `json:"message" example:"Get employee successfully"`
	Data    Employee `json:"data"`
}

type DepartmentListResponse struct {
	Status  string       `json:"status" example:"success"`
	Message string       `json:"message" example:"Get department successfully"`
	Data    []Department `json:"data"`
}

type PositionListResponse struct {
	Status  string     `json:"status" example:"success"`
	Message string     `json:"message" example:"Get position successfully"`
	Data    []Position `json:"data"`
}

type CountResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Get employee count successfully"`
	Data    int64  `json:"data" example:"42"`
}

type ImportResponse struct {
	Status  string       `json:"status" example:"error"`
	Message string       `json:"message" example:"Data import is invalid"`
	Data    ImportResult `json:"data"`
}
