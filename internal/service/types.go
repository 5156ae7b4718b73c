package service

import (
	"context"
	"io"
	"time"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/calendar"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Admin  bool
}

// Upload is a file received with a request.
type Upload struct {
	Name    string
	Content io.Reader
}

// Emitter pushes events to connected clients. A nil receiver addresses every admin.
type Emitter interface {
	Emit(receiverID *string, event string, payload any)
}

// -- Attendance --

type CreateAttendanceInput struct {
	UserID     string
	ProjectID  *string
	Date       time.Time
	StartTime  *time.Time
	LunchStart *time.Time
	LunchEnd   *time.Time
	EndTime    *time.Time
	Hours      *float64
	Status     models.AttendanceStatus
	Notes      string
	Address    string
}

// TimeUpdate is a patch to an optional timestamp. A Set update with a nil
// Value clears the stored time.
type TimeUpdate struct {
	Set   bool
	Value *time.Time
}

// SetTime returns an update that stores t.
func SetTime(t time.Time) TimeUpdate {
	return TimeUpdate{Set: true, Value: &t}
}

type UpdateAttendanceInput struct {
	ProjectID  *string
	Date       *time.Time
	StartTime  TimeUpdate
	LunchStart TimeUpdate
	LunchEnd   TimeUpdate
	EndTime    TimeUpdate
	Hours      *float64
	Status     *models.AttendanceStatus
	Notes      *string
	Address    *string
}

type AttendanceFilter struct {
	UserID string
	Date   *time.Time
	Status models.AttendanceStatus
	Search string
	Pagination
}

type GridQuery struct {
	Year   int
	Month  int
	Search string
	Pagination
}

type BackfillInput struct {
	Year  int
	Month int
	// Through is the last day eligible for back-fill; zero means today.
	Through time.Time
}

type UserSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar,omitempty"`
	EmployeeRole string `json:"employee_role,omitempty"`
}

type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AttendanceDTO struct {
	ID               string                  `json:"id"`
	UserID           string                  `json:"user_id"`
	ProjectID        *string                 `json:"project_id"`
	Date             string                  `json:"date"`
	StartTime        *time.Time              `json:"start_time"`
	LunchStart       *time.Time              `json:"lunch_start"`
	LunchEnd         *time.Time              `json:"lunch_end"`
	EndTime          *time.Time              `json:"end_time"`
	Hours            float64                 `json:"hours"`
	AttendanceStatus models.AttendanceStatus `json:"attendance_status"`
	Notes            string                  `json:"notes"`
	Address          string                  `json:"address"`
	User             *UserSummary            `json:"user,omitempty"`
	Project          *ProjectRef             `json:"project,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

type GridCell struct {
	ID     string                  `json:"id"`
	Hours  float64                 `json:"hours"`
	Status models.AttendanceStatus `json:"status"`
}

type GridRow struct {
	User UserSummary          `json:"user"`
	Days map[string]*GridCell `json:"days"`
}

// DayRecord is one line of an employee's monthly attendance sheet.
type DayRecord struct {
	ID        *string `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	Lunch     string  `json:"lunch"`
	EndTime   string  `json:"end_time"`
	Total     string  `json:"total"`
}

type BackfillResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped_days"`
}

type AttendanceManager interface {
	Create(ctx context.Context, input CreateAttendanceInput) (AttendanceDTO, error)
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceDTO, Meta, error)
	Grid(ctx context.Context, query GridQuery) ([]GridRow, Meta, error)
	EmployeeMonth(ctx context.Context, userID string, year, month int) ([]DayRecord, error)
	Get(ctx context.Context, id string) (AttendanceDTO, error)
	Update(ctx context.Context, id string, input UpdateAttendanceInput) (AttendanceDTO, error)
	Delete(ctx context.Context, id string) error
	BackfillAbsences(ctx context.Context, input BackfillInput) (BackfillResult, error)
}

// -- Employees --

type CreateEmployeeInput struct {
	Name           string
	FirstName      string
	LastName       string
	Email          string
	Password       string
	PhoneNumber    string
	PhysicalNumber string
	EmployeeRole   string
	HourlyRate     float64
	Address        string
	Avatar         *Upload
}

type UpdateEmployeeInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Password       *string
	PhoneNumber    *string
	PhysicalNumber *string
	EmployeeRole   *string
	HourlyRate     *float64
	Address        *string
	Avatar         *Upload
}

type EmployeeFilter struct {
	EmployeeRole string
	Search       string
	Pagination
}

type EmployeeDTO struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	PhysicalNumber string    `json:"physical_number,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	EmployeeRole   string    `json:"employee_role"`
	HourlyRate     float64   `json:"hourly_rate"`
	Address        string    `json:"address,omitempty"`
	RecordedHours  float64   `json:"recorded_hours"`
	Earning        float64   `json:"earning"`
	CreatedAt      time.Time `json:"created_at"`
}

type AssignmentDTO struct {
	Project    ProjectRef `json:"project"`
	TotalHours float64    `json:"total_hours"`
	TotalCost  float64    `json:"total_cost"`
}

type EmployeeDetailDTO struct {
	EmployeeDTO
	ProjectAssignee []AssignmentDTO `json:"projectAssignee"`
	Attendance      []AttendanceDTO `json:"attendance"`
}

type EmployeeManager interface {
	Create(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error)
	List(ctx context.Context, filter EmployeeFilter) ([]EmployeeDTO, Meta, error)
	Get(ctx context.Context, id string) (EmployeeDetailDTO, error)
	Update(ctx context.Context, id string, input UpdateEmployeeInput) (EmployeeDTO, error)
	Delete(ctx context.Context, id string) error
}

// -- Projects --

type CreateProjectInput struct {
	Name      string
	Address   string
	StartDate *time.Time
	EndDate   *time.Time
	Budget    float64
	Cost      float64
	Priority  models.ProjectPriority
	Status    *int
	UserID    *string
	Assignees []string
}

type UpdateProjectInput struct {
	Name      *string
	Address   *string
	StartDate *time.Time
	EndDate   *time.Time
	Budget    *float64
	Cost      *float64
	Priority  *models.ProjectPriority
	Status    *int
	UserID    *string
	// Assignees replaces the assignee set when non-nil.
	Assignees *[]string
}

type ProjectFilter struct {
	Search   string
	Priority models.ProjectPriority
	Status   *int
	Pagination
}

type AssigneeDTO struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	TotalHours float64      `json:"total_hours"`
	TotalCost  float64      `json:"total_cost"`
	User       AssigneeUser `json:"user"`
}

type AssigneeUser struct {
	UserSummary
	HourlyRate    float64 `json:"hourly_rate"`
	RecordedHours float64 `json:"recorded_hours"`
	Earning       float64 `json:"earning"`
}

type ProjectDTO struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Address    string                 `json:"address"`
	StartDate  *time.Time             `json:"start_date"`
	EndDate    *time.Time             `json:"end_date"`
	Budget     float64                `json:"budget"`
	Cost       float64                `json:"cost"`
	Priority   models.ProjectPriority `json:"priority"`
	Status     int                    `json:"status"`
	UserID     *string                `json:"user_id"`
	TotalHours float64                `json:"total_hours"`
	TotalCost  float64                `json:"total_cost"`
	Assignees  []AssigneeDTO          `json:"assignees"`
	CreatedAt  time.Time              `json:"created_at"`
}

type ProjectManager interface {
	Create(ctx context.Context, input CreateProjectInput) (ProjectDTO, error)
	List(ctx context.Context, filter ProjectFilter) ([]ProjectDTO, Meta, error)
	Get(ctx context.Context, id string) (ProjectDTO, error)
	Update(ctx context.Context, id string, input UpdateProjectInput) (ProjectDTO, error)
	Delete(ctx context.Context, id string) error
}

// -- Academic calendar --

type CreateCalendarEventInput struct {
	Status      *int
	Title       string
	Description string
	EventType   models.CalendarEventType
	StartDate   time.Time
	EndDate     time.Time
	AllDay      bool
	Location    string
	Organizer   string
	Color       string
}

type UpdateCalendarEventInput struct {
	Status      *int
	Title       *string
	Description *string
	EventType   *models.CalendarEventType
	StartDate   *time.Time
	EndDate     *time.Time
	AllDay      *bool
	Location    *string
	Organizer   *string
	Color       *string
}

// CalendarQuery selects one month. A zero Month lists everything; a zero Year
// with a month means the current year.
type CalendarQuery struct {
	Year  int
	Month int
}

type CalendarEventDTO struct {
	ID            string                   `json:"id"`
	Status        int                      `json:"status"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	EventType     models.CalendarEventType `json:"event_type"`
	StartDate     time.Time                `json:"start_date"`
	EndDate       time.Time                `json:"end_date"`
	AllDay        bool                     `json:"all_day"`
	Location      string                   `json:"location"`
	Organizer     string                   `json:"organizer"`
	Color         string                   `json:"color"`
	GoogleEventID *string                  `json:"google_event_id"`
	Synced        bool                     `json:"synced"`
}

type CalendarListing struct {
	Events   []CalendarEventDTO `json:"events"`
	Holidays []calendar.Event   `json:"holidays"`
}

type CalendarManager interface {
	Create(ctx context.Context, input CreateCalendarEventInput) (CalendarEventDTO, error)
	List(ctx context.Context, query CalendarQuery) (CalendarListing, error)
	Update(ctx context.Context, id string, input UpdateCalendarEventInput) (CalendarEventDTO, error)
	Delete(ctx context.Context, id string) error
}

// -- Employee holidays --

type CreateHolidayInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    models.HolidayStatus
}

type UpdateHolidayInput struct {
	UserID    *string
	StartDate *time.Time
	EndDate   *time.Time
	Reason    *string
	Status    *models.HolidayStatus
}

type HolidayFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	Pagination
}

type HolidayDTO struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Reason    string               `json:"reason"`
	Status    models.HolidayStatus `json:"status"`
	TotalDays int                  `json:"total_days"`
	User      *UserSummary         `json:"user,omitempty"`
}

type HolidayManager interface {
	Create(ctx context.Context, input CreateHolidayInput) (HolidayDTO, error)
	List(ctx context.Context, filter HolidayFilter) ([]HolidayDTO, Meta, error)
	Get(ctx context.Context, id string) (HolidayDTO, error)
	Update(ctx context.Context, id string, input UpdateHolidayInput) (HolidayDTO, error)
	Delete(ctx context.Context, id string) error
}

// -- Loans --

type CreateLoanInput struct {
	UserID  string
	Amount  float64
	Purpose string
	Notes   string
}

type UpdateLoanInput struct {
	Amount  *float64
	Purpose *string
	Notes   *string
	Status  *models.LoanStatus
}

type LoanDTO struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	LoanAmount  float64           `json:"loan_amount"`
	LoanPurpose string            `json:"loan_purpose"`
	LoanStatus  models.LoanStatus `json:"loan_status"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	User        *UserSummary      `json:"user,omitempty"`
}

type LoanManager interface {
	Create(ctx context.Context, actor Actor, input CreateLoanInput) (LoanDTO, error)
	Update(ctx context.Context, actor Actor, id string, input UpdateLoanInput) (LoanDTO, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]LoanDTO, error)
	ListForUser(ctx context.Context, actor Actor, userID string) ([]LoanDTO, error)
}

// -- Notifications --

type NotificationDTO struct {
	ID          string    `json:"id"`
	ReceiverID  *string   `json:"receiver_id"`
	SenderID    *string   `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	SenderImage *string   `json:"sender_image"`
	Text        string    `json:"text"`
	Amount      *float64  `json:"amount"`
	Type        string    `json:"type"`
	EntityID    *string   `json:"entity_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationManager interface {
	List(ctx context.Context, actor Actor) ([]NotificationDTO, error)
	UpdateLoanStatus(ctx context.Context, actor Actor, loanID string, status models.LoanStatus, notes *string) (LoanDTO, error)
	Delete(ctx context.Context, actor Actor, id string) error
	DeleteAll(ctx context.Context, actor Actor) error
}

// -- Dashboard --

type DashboardSummary struct {
	TotalEmployee int64   `json:"totalEmployee"`
	TotalHours    float64 `json:"totalHours"`
	LaborCost     float64 `json:"laborCost"`
	ActiveProject int64   `json:"activeProject"`
}

type RoleShare struct {
	Role    string `json:"role"`
	Count   int64  `json:"count"`
	Percent int    `json:"percent"`
}

type RoleDistribution struct {
	Total int64       `json:"total"`
	Roles []RoleShare `json:"roles"`
}

type AttendanceReport struct {
	Dates   []string `json:"dates"`
	Present []int64  `json:"present"`
	Absent  []int64  `json:"absent"`
}

type DashboardReader interface {
	Summary(ctx context.Context) (DashboardSummary, error)
	RoleDistribution(ctx context.Context) (RoleDistribution, error)
	AttendanceReport(ctx context.Context, start, end time.Time) (AttendanceReport, error)
}

// -- Accounts --

type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
	Type  string      `json:"type"`
}

type AccountManager interface {
	Login(ctx context.Context, identifier, password string) (LoginResult, error)
	DeleteByCredentials(ctx context.Context, email, password string) error
}
