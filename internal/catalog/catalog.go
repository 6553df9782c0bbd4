// Package catalog holds the read-only reference data served by the directory,
// reviews and reports screens, plus the seeded demo accounts.
//
// Every accessor returns a fresh copy; callers may mutate the result.
package catalog

import (
	"slices"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

var specialties = []string{
	"General Physician",
	"Cardiologist",
	"Dermatologist",
	"Pediatrician",
	"Gynecologist",
	"Neurologist",
	"Orthopedic",
	"Psychiatrist",
	"Ophthalmologist",
	"ENT Specialist",
}

const (
	imageWoman1 = "https://images.unsplash.com/photo-1559839734-49b0a14c7f1c?w=300&h=300&fit=crop&crop=face"
	imageMan1   = "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=300&h=300&fit=crop&crop=face"
	imageWoman2 = "https://images.unsplash.com/photo-1594824475065-5c3c9d6565dc?w=300&h=300&fit=crop&crop=face"
	imageMan2   = "https://images.unsplash.com/photo-1582750433449-648ed127bb54?w=300&h=300&fit=crop&crop=face"
)

var doctors = []entities.Doctor{
	{
		ID: 1, Name: "Dr. Sarah Johnson", Specialty: "General Physician", Experience: 12, Rating: 4.8,
		Education:    "MD, Harvard Medical School",
		Availability: []string{"09:00 AM", "10:00 AM", "11:00 AM", "02:00 PM", "03:00 PM", "04:00 PM"},
		Image:        imageWoman1,
	},
	{
		ID: 2, Name: "Dr. Michael Chen", Specialty: "Cardiologist", Experience: 15, Rating: 4.9,
		Education:    "MD, Johns Hopkins University",
		Availability: []string{"08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM", "03:00 PM", "04:00 PM"},
		Image:        imageMan1,
	},
	{
		ID: 3, Name: "Dr. Emily Williams", Specialty: "Dermatologist", Experience: 8, Rating: 4.7,
		Education:    "MD, Stanford University",
		Availability: []string{"10:00 AM", "11:00 AM", "01:00 PM", "02:00 PM", "03:00 PM", "05:00 PM"},
		Image:        imageWoman2,
	},
	{
		ID: 4, Name: "Dr. James Rodriguez", Specialty: "Pediatrician", Experience: 10, Rating: 4.9,
		Education:    "MD, UCLA Medical School",
		Availability: []string{"09:00 AM", "10:00 AM", "11:00 AM", "02:00 PM", "03:00 PM", "04:00 PM"},
		Image:        imageMan2,
	},
	{
		ID: 5, Name: "Dr. Lisa Thompson", Specialty: "Gynecologist", Experience: 14, Rating: 4.8,
		Education:    "MD, Yale School of Medicine",
		Availability: []string{"08:00 AM", "10:00 AM", "11:00 AM", "01:00 PM", "03:00 PM", "04:00 PM"},
		Image:        imageWoman1,
	},
	{
		ID: 6, Name: "Dr. Robert Anderson", Specialty: "Neurologist", Experience: 18, Rating: 4.9,
		Education:    "MD, Columbia University",
		Availability: []string{"09:00 AM", "10:00 AM", "11:00 AM", "02:00 PM", "03:00 PM", "05:00 PM"},
		Image:        imageMan1,
	},
	{
		ID: 7, Name: "Dr. Maria Garcia", Specialty: "Orthopedic", Experience: 11, Rating: 4.7,
		Education:    "MD, Northwestern University",
		Availability: []string{"08:00 AM", "09:00 AM", "11:00 AM", "01:00 PM", "02:00 PM", "04:00 PM"},
		Image:        imageWoman2,
	},
	{
		ID: 8, Name: "Dr. David Kim", Specialty: "Psychiatrist", Experience: 9, Rating: 4.8,
		Education:    "MD, University of Pennsylvania",
		Availability: []string{"10:00 AM", "11:00 AM", "01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM"},
		Image:        imageMan2,
	},
}

var healthTips = []entities.Article{
	{
		ID: 1, Title: "Stay Hydrated", Category: "General Health",
		Content: "Drinking at least 8 glasses of water daily helps maintain bodily functions, improves skin health, and boosts energy levels. Proper hydration is essential for overall wellness.",
	},
	{
		ID: 2, Title: "Regular Exercise", Category: "Fitness",
		Content: "Aim for at least 30 minutes of moderate exercise daily. Regular physical activity reduces the risk of chronic diseases, improves mental health, and enhances overall quality of life.",
	},
	{
		ID: 3, Title: "Balanced Diet", Category: "Nutrition",
		Content: "Include a variety of fruits, vegetables, whole grains, and lean proteins in your diet. Limit processed foods, sugar, and saturated fats for optimal health.",
	},
	{
		ID: 4, Title: "Mental Wellness", Category: "Mental Health",
		Content: "Practice mindfulness, meditation, or stress-reduction techniques. Prioritize mental health as much as physical health for overall well-being.",
	},
	{
		ID: 5, Title: "Quality Sleep", Category: "Lifestyle",
		Content: "Aim for 7-9 hours of quality sleep each night. Good sleep is crucial for physical recovery, mental clarity, and immune system function.",
	},
}

var checkupTopics = []entities.Article{
	{
		ID: 1, Title: "Blood Pressure Monitoring",
		Description: "Learn how to monitor and understand your blood pressure readings",
		Content:     "Normal blood pressure is typically around 120/80 mmHg. Regular monitoring helps detect hypertension early. Use a validated blood pressure monitor, measure at the same time daily, and keep a log of your readings. Consult a doctor if you consistently have readings above 130/80 mmHg.",
	},
	{
		ID: 2, Title: "BMI Calculator",
		Description: "Calculate and understand your Body Mass Index",
		Content:     "BMI is calculated by dividing weight in kilograms by height in meters squared. A healthy BMI ranges from 18.5 to 24.9. BMI below 18.5 indicates underweight, 25-29.9 indicates overweight, and 30 or above indicates obesity. Always consider other factors like muscle mass and body composition.",
	},
	{
		ID: 3, Title: "Diabetes Risk Assessment",
		Description: "Assess your risk for type 2 diabetes",
		Content:     "Risk factors include age over 45, family history, overweight, physical inactivity, and high blood pressure. Regular exercise, maintaining healthy weight, and balanced diet can reduce your risk. Consider regular blood sugar testing if you have multiple risk factors.",
	},
	{
		ID: 4, Title: "Heart Health Check",
		Description: "Basic cardiovascular health assessment",
		Content:     "Monitor your heart rate, blood pressure, and cholesterol levels. A normal resting heart rate is 60-100 BPM. Watch for symptoms like chest pain, shortness of breath, or irregular heartbeats. Regular cardiovascular exercise and a heart-healthy diet are essential for prevention.",
	},
}

var reports = []entities.MedicalReport{
	{
		ID: 1, Title: "Complete Blood Count (CBC)", Date: "2024-01-15", Doctor: "Dr. Sarah Johnson",
		Type: "Lab Report", Status: "Normal",
		Description: "Complete blood count analysis including red blood cells, white blood cells, hemoglobin, and platelets.",
		FileURL:     "/reports/cbc-2024-01-15.pdf",
	},
	{
		ID: 2, Title: "Chest X-Ray Report", Date: "2024-01-10", Doctor: "Dr. Michael Chen",
		Type: "Radiology", Status: "Normal",
		Description: "Chest radiography examination showing clear lung fields and normal heart size.",
		FileURL:     "/reports/chest-xray-2024-01-10.pdf",
	},
	{
		ID: 3, Title: "Lipid Panel Test", Date: "2023-12-20", Doctor: "Dr. Emily Williams",
		Type: "Lab Report", Status: "Borderline",
		Description: "Cholesterol and triglyceride levels analysis with cardiovascular risk assessment.",
		FileURL:     "/reports/lipid-panel-2023-12-20.pdf",
	},
	{
		ID: 4, Title: "Electrocardiogram (ECG)", Date: "2023-12-15", Doctor: "Dr. Robert Anderson",
		Type: "Cardiology", Status: "Normal",
		Description: "12-lead electrocardiogram showing normal sinus rhythm and no acute abnormalities.",
		FileURL:     "/reports/ecg-2023-12-15.pdf",
	},
	{
		ID: 5, Title: "Annual Physical Examination", Date: "2023-11-30", Doctor: "Dr. James Rodriguez",
		Type: "Physical Exam", Status: "Good",
		Description: "Comprehensive physical examination including vital signs, systems review, and health assessment.",
		FileURL:     "/reports/physical-exam-2023-11-30.pdf",
	},
}

var seedReviews = []entities.Review{
	{
		ID: 1, AppointmentID: 101, DoctorID: 1, DoctorName: "Dr. Sarah Johnson", PatientName: "John Doe",
		Rating: 5, Comment: "Excellent consultation! Dr. Johnson was very thorough and caring.", Date: "2024-01-15",
	},
	{
		ID: 2, AppointmentID: 102, DoctorID: 2, DoctorName: "Dr. Michael Chen", PatientName: "Jane Smith",
		Rating: 4, Comment: "Very professional and knowledgeable. Wait time was a bit long but overall good experience.", Date: "2024-01-10",
	},
}

// SeedPassword is shared by every demo account.
const SeedPassword = "Password123"

var seedAccounts = []entities.User{
	{ID: "1", Email: "patient@example.com", Password: SeedPassword, Name: "John Doe", Role: entities.RolePatient, Phone: "+1234567890"},
	{ID: "2", Email: "doctor@example.com", Password: SeedPassword, Name: "Dr. Sarah Johnson", Role: entities.RoleDoctor, Phone: "+1234567891"},
	{ID: "3", Email: "admin@example.com", Password: SeedPassword, Name: "Admin User", Role: entities.RoleAdmin, Phone: "+1234567892"},
}

// Specialties returns the specialty filter options in display order.
func Specialties() []string {
	return slices.Clone(specialties)
}

// Doctors returns the doctor directory ordered by id.
func Doctors() []entities.Doctor {
	out := make([]entities.Doctor, len(doctors))
	for i, d := range doctors {
		d.Availability = slices.Clone(d.Availability)
		out[i] = d
	}
	return out
}

// DoctorByID looks a doctor up by id.
func DoctorByID(id int) (entities.Doctor, bool) {
	for _, d := range doctors {
		if d.ID == id {
			d.Availability = slices.Clone(d.Availability)
			return d, true
		}
	}
	return entities.Doctor{}, false
}

func HealthTips() []entities.Article {
	return slices.Clone(healthTips)
}

func CheckupTopics() []entities.Article {
	return slices.Clone(checkupTopics)
}

func Reports() []entities.MedicalReport {
	return slices.Clone(reports)
}

// SeedReviews returns the reviews every session starts with.
func SeedReviews() []entities.Review {
	return slices.Clone(seedReviews)
}

// SeedAccounts returns the demo accounts, passwords included.
func SeedAccounts() []entities.User {
	return slices.Clone(seedAccounts)
}
