package doctors

const (
	ErrDoctorNotFound    = "doctor not found"
	ErrInvalidIdentifier = "invalid identifier"
)
