package constants

const (
	EndpointNotFound    = `{"message":"Endpoint not found"}`
	ResourceNotFound    = `{"message":"Resource not found"}`
	BadRequest          = `{"message":"Bad request"}`
	Forbidden           = `{"message":"Forbidden"}`
	Unauthorized        = `{"message":"Unauthorized"}`
	InternalServerError = `{"message":"Internal server error"}`
	MethodNotAllowed    = `{"message":"Method not allowed"}`
	BodyRequired        = `{"message":"A request body is required"}`
)
