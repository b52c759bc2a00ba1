/*
Package postgres manages a database connection through GORM.
As part of the connection process, all migrations not yet recorded in the migrations table are run,
each in its own transaction.

The session "database" driver stores sessions through the connection this package opens.
*/
package postgres
