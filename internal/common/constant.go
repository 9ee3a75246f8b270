package common

// RequestIDHeaderName is the HTTP header carrying the request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// PessoasRoute is the collection route of the HTTP API. It is also used as the
// "rota" attribute of the creation counter.
const PessoasRoute = "/pessoas/"
