package handler

// errorResponse is the JSON body of every handled failure.
type errorResponse struct {
	Error string `json:"error"`
}
