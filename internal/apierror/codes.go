package apierror

// Error type URIs following the urn:studyguide:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeNotFound indicates the requested resource or route was not found (404)
	TypeNotFound = "urn:studyguide:error:not_found"

	// TypeMethodNotAllowed indicates the route exists for other methods (405)
	TypeMethodNotAllowed = "urn:studyguide:error:method_not_allowed"

	// TypePayloadTooLarge indicates the request body exceeded the limit (413)
	TypePayloadTooLarge = "urn:studyguide:error:payload_too_large"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:studyguide:error:rate_limit"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:studyguide:error:internal"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:studyguide:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleNotFound         = "Resource Not Found"
	TitleMethodNotAllowed = "Method Not Allowed"
	TitlePayloadTooLarge  = "Payload Too Large"
	TitleRateLimit        = "Rate Limit Exceeded"
	TitleInternal         = "Internal Server Error"
	TitleBadRequest       = "Bad Request"
)
