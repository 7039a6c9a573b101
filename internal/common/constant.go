package common

// DateLayout is the format of the event timestamp (fecha) the server fills in
// when the caller leaves it empty.
const DateLayout = "2006-01-02 15:04:05"

// SessionUserKey is the session value holding the authenticated username.
const SessionUserKey = "user"
