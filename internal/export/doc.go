// Package export binds the web configuration bundle into host contexts: a
// module-style target, a global object, a JSON document or a browser script.
// Bind and Namespace are the entry points for hosts that embed the bundle
// in-process; the HTTP service binds its bundle through them at start-up.
package export
