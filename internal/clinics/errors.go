package clinics

const (
	ErrNoClinic = "user has no associated clinic"
)
