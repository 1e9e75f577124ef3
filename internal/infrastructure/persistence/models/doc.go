// Package models contains GORM persistence models that map to the ledger tables.
// They are kept apart from the domain entities so the domain stays free of ORM tags;
// each model converts with ToDomain and FromDomain.
//
// Decimal columns are TEXT in SQLite and NUMERIC in Postgres; both round-trip
// through decimal.Decimal without loss.
package models
