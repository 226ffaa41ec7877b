package request

// Contact carries the checkout contact form fields. Partially filled forms
// are accepted and stored as-is; completeness is only enforced on confirm.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
