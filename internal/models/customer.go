package models

type CustomerType string

const (
	CustomerIndividual CustomerType = "individual"
	CustomerRestaurant CustomerType = "restaurant"
)

// Valid reports whether t is one of the two customer tiers.
func (t CustomerType) Valid() bool {
	return t == CustomerIndividual || t == CustomerRestaurant
}

// Label returns the display label used on badges and selects
func (t CustomerType) Label() string {
	switch t {
	case CustomerRestaurant:
		return "Restaurant"
	case CustomerIndividual:
		return "Individual"
	default:
		return "All Customers"
	}
}

type Customer struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone,omitempty"`
	Email        string       `json:"email,omitempty"`
	CustomerType CustomerType `json:"customer_type"`
	Address      string       `json:"address,omitempty"`
	CreatedAt    string       `json:"created_at,omitempty"`
}

// CustomerRequest is the body of both POST /customers and PUT /customers/{id}
type CustomerRequest struct {
	Name         string       `json:"name"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	CustomerType CustomerType `json:"customer_type"`
	Address      string       `json:"address"`
}
