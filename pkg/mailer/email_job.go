package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// WelcomeJob builds the registration welcome email for a new user.
func WelcomeJob(email, name string) EmailJob {
	if name == "" {
		name = email
	}
	return EmailJob{
		To:      email,
		Subject: "Welcome to GeoAtlas",
		Text: fmt.Sprintf("Hi %s,\n\n"+
			"Your account is ready. Sign in to start building your own country, "+
			"state and city directory.\n", name),
	}
}
