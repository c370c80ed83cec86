// Package api contains the HTTP handlers for the task management service:
// authentication, user administration, task lifecycle, and the on-demand
// overdue sweep trigger.
package api
