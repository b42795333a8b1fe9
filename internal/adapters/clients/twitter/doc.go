// Package twitter owns the named Twitter API connections.
//
// A Registry holds the configured connection set. GetClient hands out one
// cached Client per name, created on first use; CreateClient always builds a
// fresh one. Each Client signs requests according to the credentials of its
// connection and records the Outcome of its last call, which the acl package
// turns into an *acl.APIError.
package twitter
