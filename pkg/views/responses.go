package views

// GeneralResponse acknowledges a mutation without echoing entity state.
type GeneralResponse struct {
	Message string `json:"message"`
}
