package model

// EmploymentType は雇用形態を表す。
type EmploymentType string

const (
	EmploymentPermanent EmploymentType = "permanent"
	EmploymentContract  EmploymentType = "contract"
	EmploymentTemporary EmploymentType = "temporary"
	EmploymentPartTime  EmploymentType = "part_time"
	EmploymentIntern    EmploymentType = "intern"
	EmploymentProbation EmploymentType = "probation"
)

// EmployeeStatus は在籍状態を表す。
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeOnLeave    EmployeeStatus = "on_leave"
	EmployeeResigned   EmployeeStatus = "resigned"
	EmployeeTerminated EmployeeStatus = "terminated"
	EmployeeProbation  EmployeeStatus = "probation"
)

// WorkLocation は勤務形態を表す。
type WorkLocation string

const (
	WorkOffice WorkLocation = "office"
	WorkRemote WorkLocation = "remote"
	WorkHybrid WorkLocation = "hybrid"
)

// Employee は社員レコードを表す。
// モックのフィクスチャは読み取り専用で、更新は永続化されない。
type Employee struct {
	ID               string         `json:"id" yaml:"id"`
	EmployeeID       string         `json:"employeeId" yaml:"employeeId"`
	UserID           string         `json:"userId,omitempty" yaml:"userId"`
	FirstName        string         `json:"firstName" yaml:"firstName"`
	LastName         string         `json:"lastName" yaml:"lastName"`
	Email            string         `json:"email" yaml:"email"`
	Avatar           string         `json:"avatar,omitempty" yaml:"avatar"`
	Department       string         `json:"department" yaml:"department"`
	Designation      string         `json:"designation" yaml:"designation"`
	ReportingManager string         `json:"reportingManager,omitempty" yaml:"reportingManager"`
	EmploymentType   EmploymentType `json:"employmentType" yaml:"employmentType"`
	EmploymentStatus EmployeeStatus `json:"employmentStatus" yaml:"employmentStatus"`
	WorkLocation     WorkLocation   `json:"workLocation" yaml:"workLocation"`
	IsActive         bool           `json:"isActive" yaml:"isActive"`
	Phone            string         `json:"phone,omitempty" yaml:"phone"`
	DateOfJoining    string         `json:"dateOfJoining,omitempty" yaml:"dateOfJoining"`
	DateOfBirth      string         `json:"dateOfBirth,omitempty" yaml:"dateOfBirth"`
	Gender           string         `json:"gender,omitempty" yaml:"gender"`
	Nationality      string         `json:"nationality,omitempty" yaml:"nationality"`
	Salary           float64        `json:"salary" yaml:"salary"`
	Address          string         `json:"address,omitempty" yaml:"address"`
}

// FullName は「名 姓」形式の氏名を返す。
func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
