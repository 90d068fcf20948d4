package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// outbound requests to the remote store.
const AccessTokenHeaderName = "Authorization"

// LocalKeyPrefix namespaces every logical key in the local cache so that
// unrelated tools sharing the same database cannot collide with ours.
const LocalKeyPrefix = "villa:"
