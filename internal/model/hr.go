package model

import "time"

// LeaveType は休暇種別を表す。
type LeaveType string

const (
	LeaveCasual       LeaveType = "casual"
	LeaveSick         LeaveType = "sick"
	LeaveAnnual       LeaveType = "annual"
	LeaveMaternity    LeaveType = "maternity"
	LeavePaternity    LeaveType = "paternity"
	LeaveBereavement  LeaveType = "bereavement"
	LeaveUnpaid       LeaveType = "unpaid"
	LeaveCompensatory LeaveType = "compensatory"
)

// LeaveRequestStatus は休暇申請の状態を表す。
type LeaveRequestStatus string

const (
	LeavePending   LeaveRequestStatus = "pending"
	LeaveApproved  LeaveRequestStatus = "approved"
	LeaveRejected  LeaveRequestStatus = "rejected"
	LeaveCancelled LeaveRequestStatus = "cancelled"
	LeaveWithdrawn LeaveRequestStatus = "withdrawn"
)

// LeaveBalance は社員ごと・種別ごとの休暇残日数。
type LeaveBalance struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employeeId"`
	LeaveType          LeaveType `json:"leaveType"`
	Year               int       `json:"year"`
	TotalDaysAllotted  float64   `json:"totalDaysAllotted"`
	DaysUsed           float64   `json:"daysUsed"`
	DaysCarriedForward float64   `json:"daysCarriedForward"`
	DaysAvailable      float64   `json:"daysAvailable"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// PartialDay は半休の指定。Typeは first_half または second_half。
type PartialDay struct {
	Type string `json:"type"`
}

// LeaveRequest は休暇申請を表す。
type LeaveRequest struct {
	ID            string             `json:"id,omitempty"`
	EmployeeID    string             `json:"employeeId"`
	LeaveType     LeaveType          `json:"leaveType"`
	StartDate     time.Time          `json:"startDate"`
	EndDate       time.Time          `json:"endDate"`
	NumberOfDays  float64            `json:"numberOfDays"`
	PartialDay    *PartialDay        `json:"partialDay,omitempty"`
	Reason        string             `json:"reason"`
	Status        LeaveRequestStatus `json:"status,omitempty"`
	RequestedDate *time.Time         `json:"requestedDate,omitempty"`
	ApprovedBy    string             `json:"approvedBy,omitempty"`
	ApprovalDate  *time.Time         `json:"approvalDate,omitempty"`
	Remarks       string             `json:"remarks,omitempty"`
	Attachments   []string           `json:"attachments,omitempty"`
	IsWithPay     bool               `json:"isWithPay"`
}

// PayrollPeriod は給与計算期間を表す。
type PayrollPeriod string

const (
	PayrollMonthly    PayrollPeriod = "monthly"
	PayrollQuarterly  PayrollPeriod = "quarterly"
	PayrollHalfYearly PayrollPeriod = "half_yearly"
	PayrollAnnual     PayrollPeriod = "annual"
)

// SalaryComponent は給与構成要素（支給または控除）。
type SalaryComponent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	IsEarning   bool     `json:"isEarning"`
	IsFixed     bool     `json:"isFixed"`
	Value       float64  `json:"value"`
	Percentage  *float64 `json:"percentage,omitempty"`
}

// SalaryStructure は社員の給与体系。
type SalaryStructure struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employeeId"`
	BaseSalary      float64           `json:"baseSalary"`
	Components      []SalaryComponent `json:"components"`
	EffectiveDate   time.Time         `json:"effectiveDate"`
	EndDate         *time.Time        `json:"endDate,omitempty"`
	TotalEarnings   float64           `json:"totalEarnings"`
	TotalDeductions float64           `json:"totalDeductions"`
	NetSalary       float64           `json:"netSalary"`
	IsActive        bool              `json:"isActive"`
}

// PayLine は給与明細の1行。
type PayLine struct {
	Component string  `json:"component"`
	Amount    float64 `json:"amount"`
}

// PayrollSlip は給与明細を表す。
type PayrollSlip struct {
	ID              string        `json:"id"`
	EmployeeID      string        `json:"employeeId"`
	Period          PayrollPeriod `json:"period"`
	PeriodStart     time.Time     `json:"periodStart"`
	PeriodEnd       time.Time     `json:"periodEnd"`
	BaseSalary      float64       `json:"baseSalary"`
	Earnings        []PayLine     `json:"earnings"`
	Deductions      []PayLine     `json:"deductions"`
	TotalEarnings   float64       `json:"totalEarnings"`
	TotalDeductions float64       `json:"totalDeductions"`
	NetPayable      float64       `json:"netPayable"`
	Status          string        `json:"status"`
	IssuedDate      time.Time     `json:"issuedDate"`
	PaidDate        *time.Time    `json:"paidDate,omitempty"`
	TaxableIncome   float64       `json:"taxableIncome"`
	IncomeTax       float64       `json:"incomeTax"`
	PFContribution  float64       `json:"pfContribution"`
}

// AttendanceStatus は日次の勤怠状態を表す。
type AttendanceStatus string

const (
	AttendancePresent      AttendanceStatus = "present"
	AttendanceAbsent       AttendanceStatus = "absent"
	AttendanceLate         AttendanceStatus = "late"
	AttendanceHalfDay      AttendanceStatus = "half_day"
	AttendanceWorkFromHome AttendanceStatus = "work_from_home"
	AttendanceOnLeave      AttendanceStatus = "on_leave"
	AttendanceHoliday      AttendanceStatus = "holiday"
	AttendanceWeekend      AttendanceStatus = "weekend"
)

// AttendanceRecord は日次の勤怠記録。
type AttendanceRecord struct {
	ID           string           `json:"id,omitempty"`
	EmployeeID   string           `json:"employeeId"`
	Date         time.Time        `json:"date"`
	Status       AttendanceStatus `json:"status"`
	CheckInTime  *time.Time       `json:"checkInTime,omitempty"`
	CheckOutTime *time.Time       `json:"checkOutTime,omitempty"`
	WorkingHours *float64         `json:"workingHours,omitempty"`
	Remarks      string           `json:"remarks,omitempty"`
	MarkedBy     string           `json:"markedBy,omitempty"`
	MarkedDate   *time.Time       `json:"markedDate,omitempty"`
}

// AttendanceSummary は期間内の勤怠集計。
type AttendanceSummary struct {
	EmployeeID           string    `json:"employeeId"`
	PeriodStart          time.Time `json:"periodStart"`
	PeriodEnd            time.Time `json:"periodEnd"`
	TotalDays            int       `json:"totalDays"`
	PresentDays          int       `json:"presentDays"`
	AbsentDays           int       `json:"absentDays"`
	LateDays             int       `json:"lateDays"`
	HalfDays             int       `json:"halfDays"`
	WorkFromHomeDays     int       `json:"workFromHomeDays"`
	LeaveDays            int       `json:"leaveDays"`
	AttendancePercentage float64   `json:"attendancePercentage"`
}

// PerformanceRating は1〜5の評価値。
type PerformanceRating int

const (
	RatingPoor PerformanceRating = iota + 1
	RatingBelowAverage
	RatingAverage
	RatingAboveAverage
	RatingExcellent
)

// PerformanceGoal は評価対象の目標。
type PerformanceGoal struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	Unit         string     `json:"unit"`
	Status       string     `json:"status"`
	DueDate      time.Time  `json:"dueDate"`
	CreatedDate  time.Time  `json:"createdDate"`
	Completed    *time.Time `json:"completedDate,omitempty"`
	Weight       float64    `json:"weight"`
	Comments     string     `json:"comments,omitempty"`
}

// Competency はコンピテンシー評価。
type Competency struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Level       int    `json:"level"`
}

// Appraisal は人事評価を表す。
type Appraisal struct {
	ID                  string             `json:"id,omitempty"`
	EmployeeID          string             `json:"employeeId"`
	PeriodStart         time.Time          `json:"appraisalPeriodStart"`
	PeriodEnd           time.Time          `json:"appraisalPeriodEnd"`
	ReviewerName        string             `json:"reviewerName"`
	ReviewerID          string             `json:"reviewerId"`
	OverallRating       PerformanceRating  `json:"overallRating"`
	Goals               []PerformanceGoal  `json:"goals"`
	Competencies        []Competency       `json:"competencies"`
	Strengths           string             `json:"strengths"`
	AreasForImprovement string             `json:"areasForImprovement"`
	Feedback            string             `json:"feedback"`
	Recommendations     string             `json:"recommendations"`
	Status              string             `json:"status"`
	SubmittedDate       *time.Time         `json:"submittedDate,omitempty"`
	ApprovedDate        *time.Time         `json:"approvedDate,omitempty"`
	PublishedDate       *time.Time         `json:"publishedDate,omitempty"`
	SelfRating          *PerformanceRating `json:"selfRating,omitempty"`
	SelfComments        string             `json:"selfComments,omitempty"`
}

// TrainingEnrollment は研修の受講登録。
type TrainingEnrollment struct {
	ID             string     `json:"id"`
	TrainingID     string     `json:"trainingId"`
	EmployeeID     string     `json:"employeeId"`
	EnrollmentDate time.Time  `json:"enrollmentDate"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	CertificateURL string     `json:"certificateUrl,omitempty"`
	Score          *float64   `json:"score,omitempty"`
	Status         string     `json:"status"`
	Feedback       string     `json:"feedback,omitempty"`
}
