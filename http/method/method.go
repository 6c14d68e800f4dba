package method

type Method uint8

const (
	Unknown Method = iota
	GET
	HEAD
	POST
	PUT
	PATCH
	DELETE
	OPTIONS
)

// List contains all the supported HTTP methods. They are sorted by their integer value, however
// Unknown method is not included.
var List = []Method{GET, HEAD, POST, PUT, PATCH, DELETE, OPTIONS}

// Parse matches the token case-sensitively against the supported methods.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if str == "GET" {
			return GET
		} else if str == "PUT" {
			return PUT
		}
	case 4:
		if str == "POST" {
			return POST
		} else if str == "HEAD" {
			return HEAD
		}
	case 5:
		if str == "PATCH" {
			return PATCH
		}
	case 6:
		if str == "DELETE" {
			return DELETE
		}
	case 7:
		if str == "OPTIONS" {
			return OPTIONS
		}
	}

	return Unknown
}

// HasBody reports whether requests of the method are expected to carry a body.
func (m Method) HasBody() bool {
	switch m {
	case POST, PUT, PATCH, DELETE:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	case HEAD:
		return "HEAD"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case PATCH:
		return "PATCH"
	case DELETE:
		return "DELETE"
	case OPTIONS:
		return "OPTIONS"
	default:
		return "Unknown"
	}
}
