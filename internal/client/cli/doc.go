// Package cli provides the Datalyn command-line client.
//
// Commands talk to a running server through client.APIClient. signup and
// login cache the session token on disk so later commands (me, settings,
// chat, logout) reuse it. smoke runs the end-to-end check of the API
// against a throwaway account.
package cli
