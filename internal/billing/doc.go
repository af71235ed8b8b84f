// Package billing holds the integrity rules for billings and payments:
// payment admission, ownership scoping, owner binding, balance aggregation,
// and the create/update pipeline that ties them to storage and notification.
//
// Callers pass the principal explicitly; nothing here reads request context.
package billing
