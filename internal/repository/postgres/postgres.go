// Package postgres contains the gorm-backed persistence layer. Each
// repository maps a domain package's Repository interface onto PostgreSQL.
package postgres

import (
	"gorm.io/gorm/clause"
)

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

// forUpdate is a SELECT ... FOR UPDATE row lock.
func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
