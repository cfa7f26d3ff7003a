package dashboard

// Summary holds the clinic totals shown on the dashboard. Revenue is in currency units and only
// counts appointments that were not cancelled.
type Summary struct {
	Revenue      float64            `json:"revenue"`
	Appointments int64              `json:"appointments"`
	Patients     int64              `json:"patients"`
	Doctors      int64              `json:"doctors"`
	TopDoctors   []DoctorRanking    `json:"top_doctors"`
	Specialties  []SpecialtyRanking `json:"specialties"`
}

type DoctorRanking struct {
	Name         string `json:"name" dbfield:"name"`
	Specialty    string `json:"specialty" dbfield:"specialty"`
	Appointments int64  `json:"appointments" dbfield:"appointments"`
}

type SpecialtyRanking struct {
	Name         string `json:"name" dbfield:"specialty"`
	Appointments int64  `json:"appointments" dbfield:"appointments"`
}

func emptySummary() Summary {
	return Summary{TopDoctors: []DoctorRanking{}, Specialties: []SpecialtyRanking{}}
}
