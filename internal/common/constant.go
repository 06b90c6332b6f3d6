package common

// TokenHeaderName is the HTTP header carrying the session token.
const TokenHeaderName = "X-Token"

// SessionKeyPrefix namespaces session tokens in the key-value cache.
const SessionKeyPrefix = "auth_"

// RootParentID denotes the top level of the file hierarchy.
const RootParentID = "0"
