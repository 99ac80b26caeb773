// Package captcha implements an arithmetic image captcha: it generates
// a distorted image of a simple addition problem, keeps the expected
// answer in a TTL-bounded store keyed by an opaque identifier, and
// validates answers submitted later against that identifier.
//
// The package holds the core types (Options, Challenge, Failure) and
// the Service orchestrating generation and validation. Image drawing
// lives in the render package; store implementations live under store.
package captcha
