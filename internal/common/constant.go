package common

// AuthorizationHeaderName carries the bearer token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value inside the Authorization header.
const BearerPrefix = "Bearer "

// DefaultEmailDomain is appended to generated and migrated user logins.
const DefaultEmailDomain = "ukd.edu.ua"

// DefaultAvatarURL is shown for users that never uploaded a picture.
const DefaultAvatarURL = "https://cdn-icons-png.flaticon.com/512/3135/3135715.png"

// DeadlineLayout is the literal naive local timestamp format of absence deadlines.
const DeadlineLayout = "2006-01-02T15:04"
