package pkg

import "net/http"

// Message is one entry of the error envelope.
type Message struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	ErrorType   string `json:"error_type"`
	Description string `json:"description"`
}

// ErrorResponse is the JSON envelope of every error response.
type ErrorResponse struct {
	Messages []Message `json:"messages"`
}

const (
	errorTypeFatal = "FATAL"
	errorTypeError = "ERROR"
)

// errorMessages maps HTTP status codes to their fixed envelope entry.
var errorMessages = map[int]Message{
	http.StatusBadRequest: {
		Code: "BAD_REQUEST", ErrorType: errorTypeFatal, Message: "Bad Request",
		Description: "The request is incorrect because the selected parameters are wrong or a functional error has occurred.",
	},
	http.StatusUnauthorized: {
		Code: "UNAUTHORIZED", ErrorType: errorTypeError, Message: "Unauthorized",
		Description: "The call needs some kind of authorization either expired or not reported.",
	},
	http.StatusForbidden: {
		Code: "FORBIDDEN", ErrorType: errorTypeFatal, Message: "Forbidden",
		Description: "You do not have permissions to operate with this invocation.",
	},
	http.StatusNotFound: {
		Code: "NOT_FOUND", ErrorType: errorTypeFatal, Message: "Not Found",
		Description: "Resource not found.",
	},
	http.StatusMethodNotAllowed: {
		Code: "METHOD_NOT_ALLOWED", ErrorType: errorTypeError, Message: "Method not allowed",
		Description: "The request method is known by the server but is not supported by the target resource.",
	},
	http.StatusNotAcceptable: {
		Code: "NOT_ACCEPTABLE", ErrorType: errorTypeFatal, Message: "Not Acceptable",
		Description: `The format indicated in the "Accept" header of the request is not supported by the destination server.`,
	},
	http.StatusConflict: {
		Code: "CONFLICT", ErrorType: errorTypeFatal, Message: "Conflict",
		Description: "The request has not been completed due to a conflict with the current status of the resource.",
	},
	http.StatusRequestEntityTooLarge: {
		Code: "PAYLOAD_TOO_LARGE", ErrorType: errorTypeFatal, Message: "Payload Too Large",
		Description: "The size of the client request has exceeded the server's file size limit.",
	},
	http.StatusRequestURITooLong: {
		Code: "URI_TOO_LONG", ErrorType: errorTypeError, Message: "URI Too Long",
		Description: "The size of the client request has exceeded the server's file size limit.",
	},
	http.StatusUnsupportedMediaType: {
		Code: "UNSUPPORTED_MEDIA_TYPE", ErrorType: errorTypeFatal, Message: "Unsupported Media Type",
		Description: `Incorrect format of the response, does not match the one indicated in the "Content-Type" header.`,
	},
	http.StatusUnprocessableEntity: {
		Code: "UNPROCESSABLE_ENTITY", ErrorType: errorTypeFatal, Message: "Unprocessable Entity",
		Description: "The structure of the request is correct, but it is not semantically correct.",
	},
	http.StatusLocked: {
		Code: "LOCKED", ErrorType: errorTypeFatal, Message: "Locked",
		Description: "The resource you are trying to access is blocked.",
	},
	http.StatusTooManyRequests: {
		Code: "TOO_MANY_REQUESTS", ErrorType: errorTypeError, Message: "Too Many Requests",
		Description: "Too many requests in a given period of time and limit has been exceeded.",
	},
	http.StatusInternalServerError: {
		Code: "INTERNAL_SERVER_ERROR", ErrorType: errorTypeFatal, Message: "Internal server error",
		Description: "Unexpected error from the server, it has no way to respond to the invocation.",
	},
	http.StatusNotImplemented: {
		Code: "NOT_IMPLEMENTED", ErrorType: errorTypeError, Message: "Not implemented",
		Description: "The functionality is not supported by the service.",
	},
	http.StatusBadGateway: {
		Code: "BAD_GATEWAY", ErrorType: errorTypeError, Message: "Bad Gateway",
		Description: "Indicates that the server, while acting as a gateway or proxy, received an invalid response from an inbound service that it accessed while attempting to fulfill the request.",
	},
	http.StatusServiceUnavailable: {
		Code: "SERVICE_UNAVAILABLE", ErrorType: errorTypeError, Message: "Service unavailable",
		Description: "Indicates that the server is unavailable to perform the request because it is overloaded or maintenance is being performed, and that it will probably be relieved after some time.",
	},
	http.StatusGatewayTimeout: {
		Code: "GATEWAY_TIMEOUT", ErrorType: errorTypeError, Message: "Gateway timeout",
		Description: "Indicates that the server, while acting as a gateway or proxy, did not receive a timely response from an upstream server it needed to access to complete the request.",
	},
}

// MessageFor returns the envelope entry for status. Unknown codes fall back
// to the 500 entry for server errors and the 400 entry otherwise.
func MessageFor(status int) Message {
	if m, ok := errorMessages[status]; ok {
		return m
	}
	if status >= http.StatusInternalServerError {
		return errorMessages[http.StatusInternalServerError]
	}
	return errorMessages[http.StatusBadRequest]
}
