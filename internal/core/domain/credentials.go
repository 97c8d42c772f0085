package domain

// Credentials holds the secrets a run needs, as read from the environment.
type Credentials struct {
	// AircallToken is the bearer token for the telephony API.
	AircallToken string

	// GoogleServiceAccount is the service-account key in Google's JSON format.
	GoogleServiceAccount []byte
}
