package appointments

const (
	ErrMissingFields   = "missing required fields"
	ErrDoctorNotFound  = "doctor not found"
	ErrPatientNotFound = "patient not found"
	ErrSlotTaken       = "slot already booked"
)
