// Package postgres implements the store interfaces against a PostgreSQL
// database reached through database/sql with the pgx stdlib driver. All
// stores accept a store.DBTX so they run equally against a connection pool
// or an open transaction, and expose WithTx to rebind themselves to one.
package postgres
