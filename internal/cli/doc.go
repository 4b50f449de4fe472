// Package cli implements ukdctl, the operator tool that works on the portal
// store directly: bootstrapping admins, resetting passwords, blocking
// accounts and running the attendance sheet import outside the web UI.
package cli
