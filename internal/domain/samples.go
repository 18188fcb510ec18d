package domain

// SampleWaterForm returns the demo water submission used to populate an empty dashboard.
func SampleWaterForm() WaterForm {
	return WaterForm{
		Location:     "Majuli Village Well",
		PH:           "6.2",
		Turbidity:    "8.5",
		TDS:          "600",
		Temperature:  "32",
		Color:        "yellowish",
		Odor:         "musty",
		ReporterName: "Ravi Kumar",
	}
}

// SampleSymptomForm returns the demo symptom submission used to populate an empty dashboard.
func SampleSymptomForm() SymptomForm {
	return SymptomForm{
		ReporterName: "Dr. Priya",
		Location:     "Dibrugarh PHC",
		PatientAge:   "35",
		Symptoms:     "severe diarrhea, fever, vomiting, abdominal cramps",
		Severity:     SeveritySevere,
		Duration:     DurationWeek,
	}
}
