// Package webconfig defines the configuration handed to the web client's
// Firebase integration: session persistence, Firestore offline sync and
// geolocation permission flags. The configuration is built once at start-up
// with New and passed to the components that need it; every call returns a
// fresh copy so no state is shared between consumers.
package webconfig
