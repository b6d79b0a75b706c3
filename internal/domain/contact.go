package domain

// ContactMessage is a submission of the contact form.
type ContactMessage struct {
	Name        string
	Email       string
	ProjectType string
	Message     string
}
