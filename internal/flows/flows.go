// Package flows ships the wizards used by the product screens.
// They are served when no flow repository is configured.
package flows

import (
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/dsl"
	"github.com/aretw0/intake/pkg/flow"
)

// Flow IDs of the built-in catalog.
const (
	DoctorIntake   = "doctor-intake"
	ProfileSetup   = "profile-setup"
	PatientIntake  = "patient-intake"
	PatientProfile = "patient-profile"
)

func doctorIntake() *dsl.Builder {
	b := dsl.New(DoctorIntake).
		Title("Clinician onboarding").
		Intro("Hi! I'll ask a few questions to set up your practitioner profile.")

	b.Text("full_name", "What's your full name?").
		Label("Name").
		Placeholder("Dr. Jane Doe")
	b.Single("role", "Thanks {{ .full_name }}. Which best describes your role?",
		"Psychiatrist", "Psychologist", "Counselor", "Social worker", "Other").
		Label("Role")
	b.Text("role_other", "Please describe your role.").
		Label("Role (other)").
		WhenEquals("role", "Other")
	b.Text("license_number", "What is your license number?").
		Label("License").
		WhenIn("role", "Psychiatrist", "Psychologist")
	b.Number("years_experience", "How many years have you been practicing?").
		Label("Years of experience")
	b.Multi("specialties", "Which areas do you specialize in?",
		"Anxiety", "Depression", "Trauma", "Addiction", "Relationships", "Other").
		Label("Specialties")
	b.Text("specialties_other", "Which other areas?").
		Label("Other specialties").
		WhenIncludes("specialties", "Other")
	b.Multi("languages", "Which languages can you hold sessions in?",
		"English", "Spanish", "Portuguese", "French").
		Label("Languages")
	b.Single("session_format", "How do you prefer to meet clients?",
		"Video", "Audio", "Chat", "Any").
		Label("Format")
	b.Text("bio", "Anything you'd like clients to know about you?").
		Label("Bio").
		Optional()
	return b
}

func profileSetup() *dsl.Builder {
	b := dsl.New(ProfileSetup).
		Title("Profile setup").
		Intro("Let's get to know you a little before your first session.")

	b.Text("nickname", "What should we call you?").
		Label("Name")
	b.Number("age", "How old are you?").
		Label("Age")
	b.Single("pronouns", "Which pronouns do you use?",
		"she/her", "he/him", "they/them", "Prefer to self-describe", "Prefer not to say").
		Label("Pronouns")
	b.Text("pronouns_custom", "How would you describe them?").
		Label("Pronouns (custom)").
		WhenEquals("pronouns", "Prefer to self-describe")
	b.Multi("goals", "What brings you here, {{ .nickname }}?",
		"Stress", "Sleep", "Mood", "Relationships", "Self-esteem").
		Label("Goals")
	b.Single("therapy_before", "Have you been in therapy before?", "Yes", "No").
		Label("Previous therapy")
	b.Text("therapy_experience", "How was that experience?").
		Label("Previous experience").
		WhenEquals("therapy_before", "Yes").
		Optional()
	b.Single("contact_preference", "How should we reach you?", "Email", "SMS", "In-app only").
		Label("Contact")
	return b
}

func patientIntake() *dsl.Builder {
	b := dsl.New(PatientIntake).
		Title("Patient intake").
		Intro("These questions help your clinician prepare. You can skip the optional ones.")

	b.Single("mood", "Over the last two weeks, how has your mood been?",
		"Good", "Okay", "Low", "Very low").
		Label("Mood")
	b.Single("self_harm", "Have you had thoughts of harming yourself?", "Yes", "No").
		Label("Self-harm thoughts").
		WhenIn("mood", "Low", "Very low")
	b.Multi("symptoms", "Which of these have you noticed?",
		"Trouble sleeping", "Low energy", "Worry", "Irritability", "Loss of interest").
		Label("Symptoms").
		Optional()
	b.Number("sleep_hours", "About how many hours do you sleep per night?").
		Label("Sleep (hours)").
		WhenIncludes("symptoms", "Trouble sleeping")
	b.Text("concern", "In your own words, what would you like help with?").
		Label("Main concern")
	return b
}

func patientProfile() *dsl.Builder {
	b := dsl.New(PatientProfile).
		Title("Patient profile")

	b.Text("name", "Full name").Label("Name")
	b.Number("age", "Age").Label("Age")
	b.Text("emergency_contact", "Emergency contact").
		Label("Emergency contact").
		Placeholder("Name and phone")
	b.Multi("preferred_times", "When are you usually available?",
		"Mornings", "Afternoons", "Evenings", "Weekends").
		Label("Availability")
	return b
}

// All returns the built-in flows in catalog order.
func All() []*flow.Flow {
	return []*flow.Flow{
		doctorIntake().MustBuild(),
		profileSetup().MustBuild(),
		patientIntake().MustBuild(),
		patientProfile().MustBuild(),
	}
}

// Loader serves the built-in flows.
func Loader() (*memory.Loader, error) {
	return dsl.Catalog(doctorIntake(), profileSetup(), patientIntake(), patientProfile())
}
