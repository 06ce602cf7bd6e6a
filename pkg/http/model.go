package http

// ErrorBody is the wire shape of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// HealthBody is the wire shape of the health check.
type HealthBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
