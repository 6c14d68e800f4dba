package status

type (
	Code   uint16
	Status string
)

// CloseConnection is not a real HTTP status. It signals the serving loop that the
// connection must be dropped without any response.
const CloseConnection Code = 1

// HTTP status codes as registered with IANA. Only the ones the server may produce are
// listed.
const (
	OK         Code = 200 // RFC 9110, 15.3.1
	Created    Code = 201 // RFC 9110, 15.3.2
	NoContent  Code = 204 // RFC 9110, 15.3.5
	BadRequest Code = 400 // RFC 9110, 15.5.1
	NotFound   Code = 404 // RFC 9110, 15.5.5

	MethodNotAllowed      Code = 405 // RFC 9110, 15.5.6
	RequestTimeout        Code = 408 // RFC 9110, 15.5.9
	RequestEntityTooLarge Code = 413 // RFC 9110, 15.5.14
	UnsupportedMediaType  Code = 415 // RFC 9110, 15.5.16

	InternalServerError Code = 500 // RFC 9110, 15.6.1
	NotImplemented      Code = 501 // RFC 9110, 15.6.2
)

// Text returns a text for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case Created:
		return "Created"
	case NoContent:
		return "No Content"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case UnsupportedMediaType:
		return "Unsupported Media Type"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	}

	return ""
}
