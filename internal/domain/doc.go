// Package domain contains the core business entities and rules of the
// task tracker: tasks and users, their validation, and the overdue
// reporting arithmetic (query parsing, cutoff calculation, and days-overdue
// annotation). It is independent of storage and delivery mechanisms.
package domain
