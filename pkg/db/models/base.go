package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the primary key is still zero. Postgres
// would default it, but generating it here keeps inserts portable to SQLite.
func ensureID(id *uuid.UUID) {
	if id != nil && *id == uuid.Nil {
		*id = uuid.New()
	}
}
