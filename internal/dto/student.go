package dto

// StudentCreatedResponse acknowledges a new student.
type StudentCreatedResponse struct {
	Message   string `json:"message"`
	StudentID int64  `json:"studentId"`
}
