package domain

// Employee is the canonical employee record inside this service. Providers
// map into it and exporters serialize it.
//
// Fields hold JSON values as received from the provider (string, number,
// bool, nested object or array). A nil field means the source did not have
// it, and serializes as null. Field order here is the output order.
type Employee struct {
	ExternalID        any `json:"external_id" yaml:"external_id"`
	Email             any `json:"email" yaml:"email"`
	FirstName         any `json:"first_name" yaml:"first_name"`
	LastName          any `json:"last_name" yaml:"last_name"`
	Department        any `json:"department" yaml:"department"`
	Title             any `json:"title" yaml:"title"`
	ManagerExternalID any `json:"manager_external_id" yaml:"manager_external_id"`
	EmploymentStatus  any `json:"employment_status" yaml:"employment_status"`
	StartDate         any `json:"start_date" yaml:"start_date"`
}
