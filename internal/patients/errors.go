package patients

const (
	ErrPatientNotFound   = "patient not found"
	ErrInvalidIdentifier = "invalid identifier"
)
